package history

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// GetByPatient returns the patient's clinical history, or nil when the
	// patient has none yet.
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*ClinicalHistory, error)
	// Save upserts the whole aggregate atomically, replacing the child
	// collections.
	Save(ctx context.Context, h *ClinicalHistory) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
