package patient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[uuid.UUID]*Patient
	failWith error
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if m.failWith != nil {
		return m.failWith
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.patients[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockRepo) SearchByName(_ context.Context, q string, limit, offset int) ([]*Patient, int, error) {
	return m.List(nil, limit, offset)
}

func validPatient() *Patient {
	return &Patient{
		FirstName: "Anna",
		LastName:  "Bianchi",
		Phone:     "3331234567",
		Privacy:   &PrivacyConsents{Treatment: true},
	}
}

// -- Tests --

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())

	p := validPatient()
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreatePatient_RequiredFields(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"missing first name", func(p *Patient) { p.FirstName = "" }},
		{"missing last name", func(p *Patient) { p.LastName = "" }},
		{"missing phone", func(p *Patient) { p.Phone = "" }},
		{"missing consents", func(p *Patient) { p.Privacy = nil }},
		{"treatment consent not given", func(p *Patient) { p.Privacy.Treatment = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPatient()
			tt.mutate(p)
			err := svc.CreatePatient(context.Background(), p)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("validation error should match ErrInvalid, got %v", err)
			}
		})
	}
}

func TestCreatePatient_MinorWithoutParentsAllowed(t *testing.T) {
	svc := NewService(newMockRepo())

	bd := time.Now().AddDate(-10, 0, 0)
	p := validPatient()
	p.BirthDate = &bd
	// Parent info is recommended for minors but never enforced.
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdatePatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := validPatient()
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Phone = "3400000000"
	if err := svc.UpdatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetPatient(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phone != "3400000000" {
		t.Errorf("phone = %s", got.Phone)
	}
}

func TestUpdatePatient_RequiresID(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.UpdatePatient(context.Background(), validPatient()); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestCreatePatient_RepoFailureSurfaces(t *testing.T) {
	repo := newMockRepo()
	repo.failWith = fmt.Errorf("disk full")
	svc := NewService(repo)

	err := svc.CreatePatient(context.Background(), validPatient())
	if err == nil || err.Error() != "disk full" {
		t.Errorf("expected storage error to surface, got %v", err)
	}
	if errors.Is(err, ErrInvalid) {
		t.Error("storage errors must not carry the validation marker")
	}
}
