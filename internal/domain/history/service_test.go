package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	byPatient map[uuid.UUID]*ClinicalHistory
	failWith  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byPatient: make(map[uuid.UUID]*ClinicalHistory)}
}

func (m *mockRepo) GetByPatient(_ context.Context, patientID uuid.UUID) (*ClinicalHistory, error) {
	return m.byPatient[patientID], nil
}

func (m *mockRepo) Save(_ context.Context, h *ClinicalHistory) error {
	if m.failWith != nil {
		return m.failWith
	}
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	m.byPatient[h.PatientID] = h
	return nil
}

func (m *mockRepo) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	delete(m.byPatient, patientID)
	return nil
}

func TestSave_RequiresPatientID(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Save(context.Background(), &ClinicalHistory{}); err == nil {
		t.Error("expected error for missing patient id")
	}
}

func TestSave_AssignsIDsToNewEntries(t *testing.T) {
	svc := NewService(newMockRepo())

	existing := uuid.New()
	h := &ClinicalHistory{
		PatientID:       uuid.New(),
		Therapies:       []Therapy{{DrugName: "new"}, {ID: existing, DrugName: "old"}},
		Interventions:   []Intervention{{Description: "appendicectomia"}},
		DiagnosticTests: []DiagnosticTest{{Name: "RX"}},
	}
	if err := svc.Save(context.Background(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.Therapies[0].ID == uuid.Nil {
		t.Error("new therapy should get an id at save time")
	}
	if h.Therapies[1].ID != existing {
		t.Error("existing therapy id must be preserved")
	}
	if h.Interventions[0].ID == uuid.Nil || h.DiagnosticTests[0].ID == uuid.Nil {
		t.Error("new list entries should get ids at save time")
	}
}

func TestSave_OngoingTherapyClearsEndDate(t *testing.T) {
	svc := NewService(newMockRepo())

	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	h := &ClinicalHistory{
		PatientID: uuid.New(),
		Therapies: []Therapy{
			{DrugName: "Eutirox", IsOngoing: true, EndDate: &end},
			{DrugName: "Tachipirina", IsOngoing: false, EndDate: &end},
		},
	}
	if err := svc.Save(context.Background(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.Therapies[0].EndDate != nil {
		t.Error("ongoing therapy must not persist an end date")
	}
	if h.Therapies[1].EndDate == nil {
		t.Error("finished therapy keeps its end date")
	}
}

func TestGetByPatient_NoneReturnsNil(t *testing.T) {
	svc := NewService(newMockRepo())
	h, err := svc.GetByPatient(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != nil {
		t.Error("expected nil history for unknown patient")
	}
}
