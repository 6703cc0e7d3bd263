package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propma/affordability/internal/adapter/http/dto"
	"github.com/propma/affordability/internal/affordability"
	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/usecase"
)

// AssessmentService defines the behavior needed by AssessmentHandler.
type AssessmentService interface {
	Assess(ctx context.Context, input usecase.AssessInput) (*domain.Assessment, error)
	Preview(ctx context.Context, input usecase.AssessInput) (affordability.Analysis, error)
	GetAssessment(ctx context.Context, id string) (*domain.Assessment, error)
	ListAssessments(ctx context.Context, filter domain.AssessmentFilter) ([]*domain.Assessment, error)
}

// AssessmentHandler handles assessment HTTP requests.
type AssessmentHandler struct {
	assessmentUC AssessmentService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assessmentUC AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentUC: assessmentUC}
}

// Create runs a full assessment and returns the normalized result.
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	assessment, err := h.assessmentUC.Assess(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to assess affordability", err)
		return
	}

	if assessment.ID != "" {
		w.Header().Set("X-Assessment-ID", assessment.ID)
		w.Header().Set("Location", "/api/v1/assessments/"+assessment.ID)
	}
	writeJSON(w, http.StatusOK, assessment.Result)
}

// Preview returns the audit record without calling the explanation step.
func (h *AssessmentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	analysis, err := h.assessmentUC.Preview(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to preview assessment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PreviewFromAnalysis(analysis))
}

// Get retrieves a stored assessment by ID.
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing assessment ID", "")
		return
	}

	assessment, err := h.assessmentUC.GetAssessment(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get assessment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AssessmentFromDomain(assessment))
}

// List lists stored assessments, newest first.
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, _ := domain.ValidatePagination(
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)

	assessments, err := h.assessmentUC.ListAssessments(r.Context(), domain.AssessmentFilter{
		ApplicationRef: r.URL.Query().Get("application_ref"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		writeDomainError(w, r, "failed to list assessments", err)
		return
	}

	items := make([]dto.AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		items = append(items, dto.AssessmentFromDomain(a))
	}

	writeJSON(w, http.StatusOK, dto.ListAssessmentsResponse{
		Assessments: items,
		Limit:       limit,
		Offset:      offset,
	})
}

func (h *AssessmentHandler) decodeInput(w http.ResponseWriter, r *http.Request) (usecase.AssessInput, bool) {
	var req dto.AssessmentRequest
	if !decodeBody(w, r, &req) {
		return usecase.AssessInput{}, false
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, "invalid request", err)
		return usecase.AssessInput{}, false
	}
	return input, true
}
