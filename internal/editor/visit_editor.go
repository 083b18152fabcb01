package editor

import (
	"bytes"
	"context"

	"github.com/google/uuid"

	"github.com/osteo/cartella/internal/domain/visit"
	"github.com/osteo/cartella/pkg/itdate"
)

type VisitService interface {
	CreateVisit(ctx context.Context, v *visit.Visit) error
	UpdateVisit(ctx context.Context, v *visit.Visit) error
	GetVisit(ctx context.Context, id uuid.UUID) (*visit.Visit, error)
}

type VisitState struct {
	Form visit.Form

	// CanSave tracks whether the visit date is a complete valid date. It is
	// recomputed only when the date field changes.
	CanSave bool

	IsSaving     bool
	IsSuccess    bool
	ErrorMessage string
}

// VisitEditor drives the add-visit and edit-visit screens for one patient.
type VisitEditor struct {
	effectQueue

	svc       VisitService
	patientID uuid.UUID
	state     VisitState

	editID   uuid.UUID
	snapshot []byte
}

func NewVisitEditor(svc VisitService, patientID uuid.UUID) *VisitEditor {
	return &VisitEditor{svc: svc, patientID: patientID}
}

func (e *VisitEditor) Load(ctx context.Context, id uuid.UUID) error {
	v, err := e.svc.GetVisit(ctx, id)
	if err != nil {
		return err
	}
	e.editID = id
	e.patientID = v.PatientID
	e.state.Form = *visit.ToForm(v)
	e.state.CanSave = itdate.IsValid(e.state.Form.VisitDate)
	e.snapshot = marshalForm(e.state.Form)
	return nil
}

func (e *VisitEditor) State() VisitState {
	return e.state
}

// UpdateField sets one scalar form field. The visit date is the only field
// whose update re-evaluates CanSave.
func (e *VisitEditor) UpdateField(name, value string) {
	f := &e.state.Form
	switch name {
	case "visitDate":
		f.VisitDate = itdate.FormatInput(value)
		e.state.CanSave = itdate.IsValid(f.VisitDate)
	case "practitioner":
		f.Practitioner = value
	case "notes":
		f.Notes = value
	case "weight":
		f.Weight = value
	case "bmi":
		f.BMI = value
	case "bloodPressure":
		f.BloodPressure = value
	case "cranialRhythm":
		f.CranialRhythm = value
	}
}

// UpdateReason sets one field of the main or secondary consultation reason,
// creating it on first write.
func (e *VisitEditor) UpdateReason(which, name, value string) {
	var r *visit.ReasonForm
	switch which {
	case "main":
		if e.state.Form.MainReason == nil {
			e.state.Form.MainReason = &visit.ReasonForm{}
		}
		r = e.state.Form.MainReason
	case "secondary":
		if e.state.Form.SecondaryReason == nil {
			e.state.Form.SecondaryReason = &visit.ReasonForm{}
		}
		r = e.state.Form.SecondaryReason
	default:
		return
	}
	switch name {
	case "description":
		r.Description = value
	case "onset":
		r.Onset = value
	case "painLevel":
		r.PainLevel = value
	case "vas":
		r.VAS = value
	case "aggravatingFactors":
		r.AggravatingFactors = value
	case "relievingFactors":
		r.RelievingFactors = value
	}
}

// Apparatus exposes the evaluation tree for in-place editing, creating it on
// first access. Children the screen never touches stay nil and are pruned at
// save time.
func (e *VisitEditor) Apparatus() *visit.ApparatusEvaluation {
	if e.state.Form.Apparatus == nil {
		e.state.Form.Apparatus = &visit.ApparatusEvaluation{}
	}
	return e.state.Form.Apparatus
}

func (e *VisitEditor) HasChanges() bool {
	if e.snapshot == nil {
		return !bytes.Equal(marshalForm(e.state.Form), marshalForm(visit.Form{}))
	}
	return !bytes.Equal(marshalForm(e.state.Form), e.snapshot)
}

// Save persists the visit. Dispatching while a save is in flight is a no-op,
// and a form that fails validation never reaches the started state.
func (e *VisitEditor) Save(ctx context.Context) {
	if e.state.IsSaving {
		return
	}

	if !e.state.CanSave {
		e.state.IsSuccess = false
		e.state.ErrorMessage = "visit date is not a valid date"
		e.emit(ValidationFailed{Message: e.state.ErrorMessage})
		return
	}

	v, err := visit.FromForm(&e.state.Form)
	if err != nil {
		e.state.IsSuccess = false
		e.state.ErrorMessage = err.Error()
		e.emit(ValidationFailed{Message: err.Error()})
		return
	}
	v.PatientID = e.patientID

	e.state.IsSaving = true
	e.state.IsSuccess = false
	e.state.ErrorMessage = ""
	e.emit(SaveStarted{})

	if e.editID != uuid.Nil {
		v.ID = e.editID
		err = e.svc.UpdateVisit(ctx, v)
	} else {
		err = e.svc.CreateVisit(ctx, v)
	}

	e.state.IsSaving = false
	if err != nil {
		e.state.ErrorMessage = err.Error()
		e.emit(SaveFailed{Message: err.Error()})
		return
	}

	e.state.IsSuccess = true
	e.snapshot = marshalForm(e.state.Form)
	e.emit(VisitSaved{ID: v.ID})
}
