package editor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/osteo/cartella/internal/domain/history"
)

type fakeHistoryService struct {
	saveCalls int
	failWith  error
	onSave    func()
	stored    *history.ClinicalHistory
}

func (f *fakeHistoryService) Save(_ context.Context, h *history.ClinicalHistory) error {
	f.saveCalls++
	if f.onSave != nil {
		f.onSave()
	}
	if f.failWith != nil {
		return f.failWith
	}
	for i := range h.Therapies {
		if h.Therapies[i].ID == uuid.Nil {
			h.Therapies[i].ID = uuid.New()
		}
	}
	f.stored = h
	return nil
}

func (f *fakeHistoryService) GetByPatient(_ context.Context, _ uuid.UUID) (*history.ClinicalHistory, error) {
	return f.stored, nil
}

func TestHistoryEditor_TherapyListEditing(t *testing.T) {
	e := NewHistoryEditor(&fakeHistoryService{}, uuid.New())

	e.AddTherapy()
	e.AddTherapy()
	e.UpdateTherapyField(0, "drugName", "Eutirox")
	e.UpdateTherapyField(1, "drugName", "Tachipirina")
	e.UpdateTherapyField(1, "startDate", "01022024")

	st := e.State()
	if len(st.Form.Therapies) != 2 {
		t.Fatalf("therapies = %d", len(st.Form.Therapies))
	}
	if st.Form.Therapies[0].DrugName != "Eutirox" {
		t.Errorf("therapy 0 = %+v", st.Form.Therapies[0])
	}
	if st.Form.Therapies[1].StartDate != "01/02/2024" {
		t.Errorf("date should be masked, got %q", st.Form.Therapies[1].StartDate)
	}
	if !st.TherapyExpanded[0] || !st.TherapyExpanded[1] {
		t.Error("new entries start expanded")
	}

	e.DeleteTherapy(0)
	st = e.State()
	if len(st.Form.Therapies) != 1 || st.Form.Therapies[0].DrugName != "Tachipirina" {
		t.Errorf("after delete: %+v", st.Form.Therapies)
	}
	if len(st.TherapyExpanded) != 1 {
		t.Errorf("expansion flags out of sync: %v", st.TherapyExpanded)
	}
}

func TestHistoryEditor_OngoingClearsEndDate(t *testing.T) {
	e := NewHistoryEditor(&fakeHistoryService{}, uuid.New())

	e.AddTherapy()
	e.UpdateTherapyField(0, "endDate", "01/06/2024")
	e.SetTherapyOngoing(0, true)
	if got := e.State().Form.Therapies[0].EndDate; got != "" {
		t.Errorf("ongoing therapy must clear end date, got %q", got)
	}

	e.SetTherapyOngoing(0, false)
	if got := e.State().Form.Therapies[0].EndDate; got != "" {
		t.Errorf("end date stays empty until typed again, got %q", got)
	}
}

func TestHistoryEditor_OutOfRangeIndexIgnored(t *testing.T) {
	e := NewHistoryEditor(&fakeHistoryService{}, uuid.New())

	e.UpdateTherapyField(0, "drugName", "x")
	e.DeleteTherapy(3)
	e.SetTherapyOngoing(-1, true)
	e.ToggleInterventionExpanded(5)

	if len(e.State().Form.Therapies) != 0 {
		t.Error("out-of-range edits must be no-ops")
	}
}

func TestHistoryEditor_ToggleExpansion(t *testing.T) {
	e := NewHistoryEditor(&fakeHistoryService{}, uuid.New())

	e.AddIntervention()
	e.ToggleInterventionExpanded(0)
	if e.State().InterventionExpanded[0] {
		t.Error("toggle should collapse the expanded entry")
	}
	e.ToggleInterventionExpanded(0)
	if !e.State().InterventionExpanded[0] {
		t.Error("toggle should expand it again")
	}
}

func TestHistoryEditor_SaveSuccess(t *testing.T) {
	svc := &fakeHistoryService{}
	patientID := uuid.New()
	e := NewHistoryEditor(svc, patientID)

	e.SetFlag("hasDrugAllergies", true)
	e.UpdateField("drugAllergiesList", "penicillin, latex")
	e.AddTherapy()
	e.UpdateTherapyField(0, "drugName", "Eutirox")
	e.Save(context.Background())

	st := e.State()
	if !st.IsSuccess || st.IsSaving {
		t.Errorf("state = %+v", st)
	}
	if svc.stored == nil || svc.stored.PatientID != patientID {
		t.Fatal("history not persisted with the patient id")
	}
	if svc.stored.Chronic == nil || len(svc.stored.Chronic.DrugAllergies) != 2 {
		t.Errorf("chronic = %+v", svc.stored.Chronic)
	}
	if st.Form.Therapies[0].ID == "" || st.Form.Therapies[0].ID == uuid.Nil.String() {
		t.Error("form should carry the id assigned at save time")
	}

	effects := e.Effects()
	if len(effects) != 2 {
		t.Fatalf("effects = %v", effects)
	}
	if _, ok := effects[1].(HistorySaved); !ok {
		t.Errorf("second effect = %T", effects[1])
	}
}

func TestHistoryEditor_SaveWhileSavingIgnored(t *testing.T) {
	svc := &fakeHistoryService{}
	e := NewHistoryEditor(svc, uuid.New())
	svc.onSave = func() {
		e.Save(context.Background())
	}

	e.SetFlag("hasDiabetes", true)
	e.Save(context.Background())

	if svc.saveCalls != 1 {
		t.Errorf("re-entrant save must be ignored, save calls = %d", svc.saveCalls)
	}
}

func TestHistoryEditor_SaveFailure(t *testing.T) {
	svc := &fakeHistoryService{failWith: fmt.Errorf("Err")}
	e := NewHistoryEditor(svc, uuid.New())

	e.SetFlag("hasDiabetes", true)
	e.Save(context.Background())

	st := e.State()
	if st.IsSuccess || st.ErrorMessage != "Err" {
		t.Errorf("state = %+v", st)
	}
}

func TestHistoryEditor_LoadAndHasChanges(t *testing.T) {
	svc := &fakeHistoryService{stored: &history.ClinicalHistory{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		Chronic:   &history.ChronicConditions{HasDiabetes: true, DiabetesType: "tipo 2"},
	}}
	e := NewHistoryEditor(svc, svc.stored.PatientID)

	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.HasChanges() {
		t.Error("freshly loaded history has no changes")
	}

	e.UpdateField("diabetesType", "tipo 1")
	if !e.HasChanges() {
		t.Error("changed field should register as a change")
	}
}
