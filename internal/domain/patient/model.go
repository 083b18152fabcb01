package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the domain representation of a registered patient. Optional
// sections are pointers: a nil section means the data was never entered,
// which is distinct from a section full of zero values.
type Patient struct {
	ID         uuid.UUID  `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Gender     *string    `json:"gender,omitempty"`
	BirthPlace *string    `json:"birth_place,omitempty"`
	TaxCode    *string    `json:"tax_code,omitempty"`
	Phone      string     `json:"phone"`
	Email      *string    `json:"email,omitempty"`

	Address *Address         `json:"address,omitempty"`
	Anthro  *Anthropometrics `json:"anthropometrics,omitempty"`
	Privacy *PrivacyConsents `json:"privacy_consents,omitempty"`
	Parents *ParentInfo      `json:"parent_info,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Anthropometrics holds height/weight/BMI/handedness measurements.
type Anthropometrics struct {
	HeightCM     float64 `json:"height_cm"`
	WeightKG     float64 `json:"weight_kg"`
	BMI          float64 `json:"bmi"`
	DominantSide string  `json:"dominant_side"` // "destro", "sinistro", "ambidestro"
}

// PrivacyConsents records the three consent flags collected at registration.
// Treatment consent is required before a patient can be saved.
type PrivacyConsents struct {
	Treatment      bool       `json:"treatment"`
	DataProcessing bool       `json:"data_processing"`
	Marketing      bool       `json:"marketing"`
	ConsentDate    *time.Time `json:"consent_date,omitempty"`
	Notes          string     `json:"notes"`
}

// ParentInfo is collected when the patient is a minor.
type ParentInfo struct {
	FatherName  string `json:"father_name"`
	FatherPhone string `json:"father_phone"`
	MotherName  string `json:"mother_name"`
	MotherPhone string `json:"mother_phone"`
}

// Summary is the list-view projection of a patient.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate string    `json:"birth_date"` // Italian format, "" when unknown
	Phone     string    `json:"phone"`
}
