package visit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalid marks errors caused by the submitted data rather than by
// storage. Handlers map it to a 400; anything else from a save is a 500.
var ErrInvalid = errors.New("invalid visit")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(v *Visit) error {
	if v.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient id is required", ErrInvalid)
	}
	if v.VisitDate.IsZero() {
		return fmt.Errorf("%w: visit date is required", ErrInvalid)
	}
	return nil
}

func (s *Service) CreateVisit(ctx context.Context, v *Visit) error {
	if err := validate(v); err != nil {
		return err
	}
	v.Apparatus = v.Apparatus.Prune()
	return s.repo.Create(ctx, v)
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateVisit(ctx context.Context, v *Visit) error {
	if v.ID == uuid.Nil {
		return fmt.Errorf("%w: visit id is required", ErrInvalid)
	}
	if err := validate(v); err != nil {
		return err
	}
	v.Apparatus = v.Apparatus.Prune()
	return s.repo.Update(ctx, v)
}

func (s *Service) DeleteVisit(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// VisitsByPatient returns the patient's visits most recent first. The
// ordering comes from storage and is part of the contract.
func (s *Service) VisitsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Visit, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListVisits(ctx context.Context) ([]*Visit, error) {
	return s.repo.List(ctx)
}
