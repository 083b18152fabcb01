package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/osteo/cartella/internal/domain/patient"
	"github.com/osteo/cartella/pkg/itdate"
)

// PatientService is the slice of the patient service the editor needs.
type PatientService interface {
	CreatePatient(ctx context.Context, p *patient.Patient) error
	UpdatePatient(ctx context.Context, p *patient.Patient) error
	GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// PatientState is the registration/edit screen state. Every update produces
// the next state synchronously; Age, IsMinor and the parent-section flag are
// derived, never set directly.
type PatientState struct {
	Form patient.Form

	Age      int
	AgeKnown bool
	IsMinor  bool

	ParentSectionExpanded bool

	IsSaving     bool
	IsSuccess    bool
	ErrorMessage string
}

// PatientEditor drives the add-patient and edit-patient screens. It is not
// safe for concurrent use; a screen owns exactly one editor.
type PatientEditor struct {
	effectQueue

	svc   PatientService
	now   func() time.Time
	state PatientState

	editID   uuid.UUID
	snapshot []byte
}

func NewPatientEditor(svc PatientService) *PatientEditor {
	return &PatientEditor{svc: svc, now: time.Now}
}

// Load switches the editor to edit mode, filling the form from storage and
// taking the snapshot HasChanges diffs against.
func (e *PatientEditor) Load(ctx context.Context, id uuid.UUID) error {
	p, err := e.svc.GetPatient(ctx, id)
	if err != nil {
		return err
	}
	e.editID = id
	e.state.Form = *patient.ToForm(p)
	e.deriveAge()
	e.snapshot = marshalForm(e.state.Form)
	return nil
}

func (e *PatientEditor) State() PatientState {
	return e.state
}

// UpdateField sets one form field by name. The birth date is masked as the
// user types and re-derives age and minor status; a patient turning out not
// to be a minor collapses the parent section. Unknown names are ignored.
func (e *PatientEditor) UpdateField(name, value string) {
	f := &e.state.Form
	switch name {
	case "firstName":
		f.FirstName = value
	case "lastName":
		f.LastName = value
	case "birthDate":
		f.BirthDate = itdate.FormatInput(value)
		e.deriveAge()
	case "gender":
		f.Gender = value
	case "birthPlace":
		f.BirthPlace = value
	case "taxCode":
		f.TaxCode = value
	case "phone":
		f.Phone = value
	case "email":
		f.Email = value
	case "street":
		f.Street = value
	case "city":
		f.City = value
	case "province":
		f.Province = value
	case "postalCode":
		f.PostalCode = value
	case "country":
		f.Country = value
	case "height":
		f.Height = value
	case "weight":
		f.Weight = value
	case "bmi":
		f.BMI = value
	case "dominantSide":
		f.DominantSide = value
	case "consentDate":
		f.ConsentDate = itdate.FormatInput(value)
	case "consentNotes":
		f.ConsentNotes = value
	case "fatherName":
		f.FatherName = value
	case "fatherPhone":
		f.FatherPhone = value
	case "motherName":
		f.MotherName = value
	case "motherPhone":
		f.MotherPhone = value
	}
}

// SetConsent flips one of the three privacy consent flags.
func (e *PatientEditor) SetConsent(name string, value bool) {
	switch name {
	case "treatment":
		e.state.Form.ConsentTreatment = value
	case "dataProcessing":
		e.state.Form.ConsentDataProcessing = value
	case "marketing":
		e.state.Form.ConsentMarketing = value
	}
}

func (e *PatientEditor) ToggleParentSection() {
	if !e.state.IsMinor {
		e.state.ParentSectionExpanded = false
		return
	}
	e.state.ParentSectionExpanded = !e.state.ParentSectionExpanded
}

func (e *PatientEditor) deriveAge() {
	age, ok := itdate.AgeAt(e.state.Form.BirthDate, e.now())
	e.state.Age = age
	e.state.AgeKnown = ok
	e.state.IsMinor = ok && age < 18
	if !e.state.IsMinor {
		e.state.ParentSectionExpanded = false
	}
}

// HasChanges reports whether the form differs from the loaded snapshot. In
// add mode any save-worthy typing counts as a change.
func (e *PatientEditor) HasChanges() bool {
	if e.snapshot == nil {
		return e.state.Form != patient.Form{}
	}
	return !bytes.Equal(marshalForm(e.state.Form), e.snapshot)
}

// Save validates and persists. A save dispatched while one is in flight is
// ignored, and a form that fails validation never reaches the started state.
func (e *PatientEditor) Save(ctx context.Context) {
	if e.state.IsSaving {
		return
	}

	p, err := patient.FromForm(&e.state.Form)
	if err != nil {
		e.state.IsSuccess = false
		e.state.ErrorMessage = err.Error()
		e.emit(ValidationFailed{Message: err.Error()})
		return
	}

	e.state.IsSaving = true
	e.state.IsSuccess = false
	e.state.ErrorMessage = ""
	e.emit(SaveStarted{})

	if e.editID != uuid.Nil {
		p.ID = e.editID
		err = e.svc.UpdatePatient(ctx, p)
	} else {
		err = e.svc.CreatePatient(ctx, p)
	}

	e.state.IsSaving = false
	if err != nil {
		e.state.ErrorMessage = err.Error()
		e.emit(SaveFailed{Message: err.Error()})
		return
	}

	e.state.IsSuccess = true
	e.snapshot = marshalForm(e.state.Form)
	e.emit(PatientSaved{ID: p.ID})
}

func marshalForm(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}
