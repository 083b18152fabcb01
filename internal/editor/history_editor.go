package editor

import (
	"bytes"
	"context"

	"github.com/google/uuid"

	"github.com/osteo/cartella/internal/domain/history"
	"github.com/osteo/cartella/pkg/itdate"
)

type HistoryService interface {
	Save(ctx context.Context, h *history.ClinicalHistory) error
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*history.ClinicalHistory, error)
}

type HistoryState struct {
	Form history.Form

	// Per-entry expansion flags, parallel to the form's lists. Entries are
	// addressed by list index while editing; identifiers exist only after a
	// save.
	TherapyExpanded      []bool
	InterventionExpanded []bool
	TestExpanded         []bool

	IsSaving     bool
	IsSuccess    bool
	ErrorMessage string
}

// HistoryEditor drives the clinical history screen for one patient.
type HistoryEditor struct {
	effectQueue

	svc       HistoryService
	patientID uuid.UUID
	state     HistoryState
	snapshot  []byte
}

func NewHistoryEditor(svc HistoryService, patientID uuid.UUID) *HistoryEditor {
	return &HistoryEditor{svc: svc, patientID: patientID}
}

func (e *HistoryEditor) Load(ctx context.Context) error {
	h, err := e.svc.GetByPatient(ctx, e.patientID)
	if err != nil {
		return err
	}
	if h != nil {
		e.state.Form = *history.ToForm(h)
	}
	e.state.TherapyExpanded = make([]bool, len(e.state.Form.Therapies))
	e.state.InterventionExpanded = make([]bool, len(e.state.Form.Interventions))
	e.state.TestExpanded = make([]bool, len(e.state.Form.DiagnosticTests))
	e.snapshot = marshalForm(e.state.Form)
	return nil
}

func (e *HistoryEditor) State() HistoryState {
	return e.state
}

func (e *HistoryEditor) UpdateField(name, value string) {
	f := &e.state.Form
	switch name {
	case "drugAllergiesList":
		f.DrugAllergiesList = value
	case "diabetesType":
		f.DiabetesType = value
	case "smokingStatus":
		f.SmokingStatus = value
	case "cigarettesPerDay":
		f.CigarettesPerDay = value
	case "smokingYears":
		f.SmokingYears = value
	case "workType":
		f.WorkType = value
	case "profession":
		f.Profession = value
	case "workHoursPerDay":
		f.WorkHoursPerDay = value
	case "sports":
		f.Sports = value
	case "sportFrequency":
		f.SportFrequency = value
	case "sportIntensity":
		f.SportIntensity = value
	case "pregnancy":
		f.Pregnancy = value
	case "birth":
		f.Birth = value
	case "development":
		f.Development = value
	}
}

func (e *HistoryEditor) SetFlag(name string, value bool) {
	f := &e.state.Form
	switch name {
	case "hasDrugAllergies":
		f.HasDrugAllergies = value
	case "hasDiabetes":
		f.HasDiabetes = value
	case "hasHypertension":
		f.HasHypertension = value
	case "hasCardiopathy":
		f.HasCardiopathy = value
	case "hasThyroidDisease":
		f.HasThyroidDisease = value
	case "doesSport":
		f.DoesSport = value
	}
}

// -- Therapies --

// AddTherapy appends a blank entry with the empty-id sentinel; the service
// assigns a real identifier at save time.
func (e *HistoryEditor) AddTherapy() {
	e.state.Form.Therapies = append(e.state.Form.Therapies, history.TherapyForm{})
	e.state.TherapyExpanded = append(e.state.TherapyExpanded, true)
}

func (e *HistoryEditor) UpdateTherapyField(i int, name, value string) {
	if i < 0 || i >= len(e.state.Form.Therapies) {
		return
	}
	t := &e.state.Form.Therapies[i]
	switch name {
	case "drugName":
		t.DrugName = value
	case "dosage":
		t.Dosage = value
	case "startDate":
		t.StartDate = itdate.FormatInput(value)
	case "endDate":
		t.EndDate = itdate.FormatInput(value)
	case "notes":
		t.Notes = value
	}
}

// SetTherapyOngoing flips the ongoing flag. Turning it on clears the end
// date immediately; turning it off leaves the end date empty until typed.
func (e *HistoryEditor) SetTherapyOngoing(i int, ongoing bool) {
	if i < 0 || i >= len(e.state.Form.Therapies) {
		return
	}
	t := &e.state.Form.Therapies[i]
	t.IsOngoing = ongoing
	if ongoing {
		t.EndDate = ""
	}
}

func (e *HistoryEditor) DeleteTherapy(i int) {
	if i < 0 || i >= len(e.state.Form.Therapies) {
		return
	}
	e.state.Form.Therapies = append(e.state.Form.Therapies[:i], e.state.Form.Therapies[i+1:]...)
	e.state.TherapyExpanded = append(e.state.TherapyExpanded[:i], e.state.TherapyExpanded[i+1:]...)
}

func (e *HistoryEditor) ToggleTherapyExpanded(i int) {
	if i >= 0 && i < len(e.state.TherapyExpanded) {
		e.state.TherapyExpanded[i] = !e.state.TherapyExpanded[i]
	}
}

// -- Interventions --

func (e *HistoryEditor) AddIntervention() {
	e.state.Form.Interventions = append(e.state.Form.Interventions, history.InterventionForm{})
	e.state.InterventionExpanded = append(e.state.InterventionExpanded, true)
}

func (e *HistoryEditor) UpdateInterventionField(i int, name, value string) {
	if i < 0 || i >= len(e.state.Form.Interventions) {
		return
	}
	in := &e.state.Form.Interventions[i]
	switch name {
	case "description":
		in.Description = value
	case "kind":
		in.Kind = value
	case "date":
		in.Date = itdate.FormatInput(value)
	case "notes":
		in.Notes = value
	}
}

func (e *HistoryEditor) DeleteIntervention(i int) {
	if i < 0 || i >= len(e.state.Form.Interventions) {
		return
	}
	e.state.Form.Interventions = append(e.state.Form.Interventions[:i], e.state.Form.Interventions[i+1:]...)
	e.state.InterventionExpanded = append(e.state.InterventionExpanded[:i], e.state.InterventionExpanded[i+1:]...)
}

func (e *HistoryEditor) ToggleInterventionExpanded(i int) {
	if i >= 0 && i < len(e.state.InterventionExpanded) {
		e.state.InterventionExpanded[i] = !e.state.InterventionExpanded[i]
	}
}

// -- Diagnostic tests --

func (e *HistoryEditor) AddDiagnosticTest() {
	e.state.Form.DiagnosticTests = append(e.state.Form.DiagnosticTests, history.DiagnosticTestForm{})
	e.state.TestExpanded = append(e.state.TestExpanded, true)
}

func (e *HistoryEditor) UpdateDiagnosticTestField(i int, name, value string) {
	if i < 0 || i >= len(e.state.Form.DiagnosticTests) {
		return
	}
	d := &e.state.Form.DiagnosticTests[i]
	switch name {
	case "name":
		d.Name = value
	case "date":
		d.Date = itdate.FormatInput(value)
	case "result":
		d.Result = value
	case "notes":
		d.Notes = value
	}
}

func (e *HistoryEditor) DeleteDiagnosticTest(i int) {
	if i < 0 || i >= len(e.state.Form.DiagnosticTests) {
		return
	}
	e.state.Form.DiagnosticTests = append(e.state.Form.DiagnosticTests[:i], e.state.Form.DiagnosticTests[i+1:]...)
	e.state.TestExpanded = append(e.state.TestExpanded[:i], e.state.TestExpanded[i+1:]...)
}

func (e *HistoryEditor) ToggleDiagnosticTestExpanded(i int) {
	if i >= 0 && i < len(e.state.TestExpanded) {
		e.state.TestExpanded[i] = !e.state.TestExpanded[i]
	}
}

func (e *HistoryEditor) HasChanges() bool {
	if e.snapshot == nil {
		return !bytes.Equal(marshalForm(e.state.Form), marshalForm(history.Form{}))
	}
	return !bytes.Equal(marshalForm(e.state.Form), e.snapshot)
}

func (e *HistoryEditor) Save(ctx context.Context) {
	if e.state.IsSaving {
		return
	}
	e.state.IsSaving = true
	e.state.IsSuccess = false
	e.state.ErrorMessage = ""
	e.emit(SaveStarted{})

	h := history.FromForm(&e.state.Form)
	h.PatientID = e.patientID
	err := e.svc.Save(ctx, h)

	e.state.IsSaving = false
	if err != nil {
		e.state.ErrorMessage = err.Error()
		e.emit(SaveFailed{Message: err.Error()})
		return
	}

	e.state.IsSuccess = true
	e.state.Form = *history.ToForm(h)
	e.snapshot = marshalForm(e.state.Form)
	e.emit(HistorySaved{})
}
