package middleware

import (
	"context"
	"net/http"

	"github.com/propma/affordability/internal/domain"
)

func contextWithUser(r *http.Request, user *domain.User) context.Context {
	return context.WithValue(r.Context(), UserContextKey, user)
}
