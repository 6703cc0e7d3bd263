package usecase

import "github.com/oklog/ulid/v2"

// ulidGenerator is the IDGenerator used when none is supplied.
type ulidGenerator struct{}

func (ulidGenerator) Generate() string {
	return ulid.Make().String()
}
