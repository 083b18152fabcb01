package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalid marks errors caused by the submitted data rather than by
// storage. Handlers map it to a 400; anything else from a save is a 500.
var ErrInvalid = errors.New("invalid clinical history")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save normalizes and persists the aggregate. New list entries arrive with
// the nil-id sentinel and get their identifier here, at save time; an
// ongoing therapy has its end date cleared before it hits storage.
func (s *Service) Save(ctx context.Context, h *ClinicalHistory) error {
	if h.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient id is required", ErrInvalid)
	}

	for i := range h.Therapies {
		t := &h.Therapies[i]
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		if t.IsOngoing {
			t.EndDate = nil
		}
	}
	for i := range h.Interventions {
		if h.Interventions[i].ID == uuid.Nil {
			h.Interventions[i].ID = uuid.New()
		}
	}
	for i := range h.DiagnosticTests {
		if h.DiagnosticTests[i].ID == uuid.Nil {
			h.DiagnosticTests[i].ID = uuid.New()
		}
	}

	return s.repo.Save(ctx, h)
}

func (s *Service) GetByPatient(ctx context.Context, patientID uuid.UUID) (*ClinicalHistory, error) {
	return s.repo.GetByPatient(ctx, patientID)
}

func (s *Service) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	return s.repo.DeleteByPatient(ctx, patientID)
}
