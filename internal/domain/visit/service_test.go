package visit

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	visits   map[uuid.UUID]*Visit
	failWith error
}

func newMockRepo() *mockRepo {
	return &mockRepo{visits: make(map[uuid.UUID]*Visit)}
}

func (m *mockRepo) Create(_ context.Context, v *Visit) error {
	if m.failWith != nil {
		return m.failWith
	}
	v.ID = uuid.New()
	m.visits[v.ID] = v
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return v, nil
}

func (m *mockRepo) Update(_ context.Context, v *Visit) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.visits[v.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.visits[v.ID] = v
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.visits, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Visit, error) {
	var out []*Visit
	for _, v := range m.visits {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	// Mirrors the persisted contract: repo_pg.go orders by visit_date DESC,
	// where the ISO text column sorts lexicographically in date order.
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	return out, nil
}

func (m *mockRepo) List(_ context.Context) ([]*Visit, error) {
	var out []*Visit
	for _, v := range m.visits {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	return out, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateVisit_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.CreateVisit(context.Background(), &Visit{VisitDate: date(2024, 3, 15)})
	if err == nil {
		t.Error("expected error for missing patient id")
	}

	err = svc.CreateVisit(context.Background(), &Visit{PatientID: uuid.New()})
	if err == nil {
		t.Error("expected error for missing visit date")
	}
}

func TestCreateVisit_PrunesApparatus(t *testing.T) {
	svc := NewService(newMockRepo())

	v := &Visit{
		PatientID: uuid.New(),
		VisitDate: date(2024, 3, 15),
		Apparatus: &ApparatusEvaluation{Cranio: &Cranio{}},
	}
	if err := svc.CreateVisit(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Apparatus != nil {
		t.Error("an evaluation with no findings must not be persisted")
	}
}

func TestVisitsByPatient_MostRecentFirst(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	patientID := uuid.New()

	for _, d := range []time.Time{
		date(2024, 1, 1),
		date(2024, 6, 1),
		date(2023, 12, 1),
	} {
		v := &Visit{PatientID: patientID, VisitDate: d}
		if err := svc.CreateVisit(context.Background(), v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	visits, err := svc.VisitsByPatient(context.Background(), patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visits) != 3 {
		t.Fatalf("visits = %d", len(visits))
	}
	want := []time.Time{date(2024, 6, 1), date(2024, 1, 1), date(2023, 12, 1)}
	for i, w := range want {
		if !visits[i].VisitDate.Equal(w) {
			t.Errorf("visit %d date = %v, want %v", i, visits[i].VisitDate, w)
		}
	}
}

func TestUpdateVisit_RequiresID(t *testing.T) {
	svc := NewService(newMockRepo())
	v := &Visit{PatientID: uuid.New(), VisitDate: date(2024, 3, 15)}
	if err := svc.UpdateVisit(context.Background(), v); err == nil {
		t.Error("expected error for missing visit id")
	}
}

func TestCreateVisit_RepoFailureSurfaces(t *testing.T) {
	repo := newMockRepo()
	repo.failWith = fmt.Errorf("connection lost")
	svc := NewService(repo)

	v := &Visit{PatientID: uuid.New(), VisitDate: date(2024, 3, 15)}
	err := svc.CreateVisit(context.Background(), v)
	if err == nil || err.Error() != "connection lost" {
		t.Errorf("expected storage error to surface, got %v", err)
	}
}
