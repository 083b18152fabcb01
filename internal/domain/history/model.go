package history

import (
	"time"

	"github.com/google/uuid"
)

// ClinicalHistory is the patient's anamnesis. Each patient has at most one;
// saving replaces the whole aggregate. Optional sections are nil when the
// osteopath never filled them in.
type ClinicalHistory struct {
	ID        uuid.UUID
	PatientID uuid.UUID

	Chronic   *ChronicConditions
	Lifestyle *Lifestyle
	Pediatric *PediatricHistory

	Therapies       []Therapy
	Interventions   []Intervention
	DiagnosticTests []DiagnosticTest

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChronicConditions struct {
	HasDrugAllergies  bool
	DrugAllergies     []string
	HasDiabetes       bool
	DiabetesType      string
	HasHypertension   bool
	HasCardiopathy    bool
	HasThyroidDisease bool
}

type Lifestyle struct {
	SmokingStatus    string
	CigarettesPerDay int
	SmokingYears     int
	WorkType         string
	Profession       string
	WorkHoursPerDay  int
	DoesSport        bool
	Sports           string
	SportFrequency   string
	SportIntensity   string
}

type PediatricHistory struct {
	Pregnancy   string
	Birth       string
	Development string
}

// Therapy is an ongoing or past pharmacological treatment. An ongoing
// therapy never carries an end date.
type Therapy struct {
	ID        uuid.UUID
	DrugName  string
	Dosage    string
	StartDate *time.Time
	EndDate   *time.Time
	IsOngoing bool
	Notes     string
}

type Intervention struct {
	ID          uuid.UUID
	Description string
	Kind        string
	Date        *time.Time
	Notes       string
}

type DiagnosticTest struct {
	ID     uuid.UUID
	Name   string
	Date   *time.Time
	Result string
	Notes  string
}
