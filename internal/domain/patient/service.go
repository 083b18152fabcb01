package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalid marks errors caused by the submitted data rather than by
// storage. Handlers map it to a 400; anything else from a save is a 500.
var ErrInvalid = errors.New("invalid patient")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// validate enforces the registration form's required fields. Parent info for
// minors is deliberately not enforced here; the form only expands the parent
// section, it never blocks a save.
func validate(p *Patient) error {
	if p.FirstName == "" {
		return fmt.Errorf("%w: first name is required", ErrInvalid)
	}
	if p.LastName == "" {
		return fmt.Errorf("%w: last name is required", ErrInvalid)
	}
	if p.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalid)
	}
	if p.Privacy == nil || !p.Privacy.Treatment {
		return fmt.Errorf("%w: treatment consent is required", ErrInvalid)
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("%w: patient id is required", ErrInvalid)
	}
	if err := validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) SearchPatients(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.SearchByName(ctx, query, limit, offset)
}
