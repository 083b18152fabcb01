package patient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/osteo/cartella/pkg/itdate"
)

// Form is the representation used by the registration and edit forms: every
// field is a string exactly as typed, dates are Italian DD/MM/YYYY, and
// numeric fields are free text. It is the write payload of the patient API.
type Form struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	BirthPlace string `json:"birth_place"`
	TaxCode    string `json:"tax_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`

	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`

	Height       string `json:"height"`
	Weight       string `json:"weight"`
	BMI          string `json:"bmi"`
	DominantSide string `json:"dominant_side"`

	ConsentTreatment      bool   `json:"consent_treatment"`
	ConsentDataProcessing bool   `json:"consent_data_processing"`
	ConsentMarketing      bool   `json:"consent_marketing"`
	ConsentDate           string `json:"consent_date"`
	ConsentNotes          string `json:"consent_notes"`

	FatherName  string `json:"father_name"`
	FatherPhone string `json:"father_phone"`
	MotherName  string `json:"mother_name"`
	MotherPhone string `json:"mother_phone"`
}

// FromForm maps a form to the domain model. Nested sections are built only
// when at least one of their fields is non-default; numeric text falls back
// to zero on unparseable input (the forms rely on this, it is not an error).
// A non-empty birth date that fails validation is the one fatal case: the
// save must not proceed with a silently dropped date.
func FromForm(f *Form) (*Patient, error) {
	p := &Patient{
		FirstName:  strings.TrimSpace(f.FirstName),
		LastName:   strings.TrimSpace(f.LastName),
		Phone:      strings.TrimSpace(f.Phone),
		Gender:     optStr(f.Gender),
		BirthPlace: optStr(f.BirthPlace),
		TaxCode:    optStr(f.TaxCode),
		Email:      optStr(f.Email),
	}

	if f.BirthDate != "" {
		t, ok := itdate.Parse(f.BirthDate)
		if !ok {
			return nil, fmt.Errorf("invalid birth date %q", f.BirthDate)
		}
		p.BirthDate = &t
	}

	if anyPresent(f.Street, f.City, f.Province, f.PostalCode, f.Country) {
		p.Address = &Address{
			Street:     f.Street,
			City:       f.City,
			Province:   f.Province,
			PostalCode: f.PostalCode,
			Country:    f.Country,
		}
	}

	if anyPresent(f.Height, f.Weight, f.BMI, f.DominantSide) {
		p.Anthro = &Anthropometrics{
			HeightCM:     parseFloat(f.Height),
			WeightKG:     parseFloat(f.Weight),
			BMI:          parseFloat(f.BMI),
			DominantSide: f.DominantSide,
		}
	}

	if f.ConsentTreatment || f.ConsentDataProcessing || f.ConsentMarketing ||
		anyPresent(f.ConsentDate, f.ConsentNotes) {
		pc := &PrivacyConsents{
			Treatment:      f.ConsentTreatment,
			DataProcessing: f.ConsentDataProcessing,
			Marketing:      f.ConsentMarketing,
			Notes:          f.ConsentNotes,
		}
		if t, ok := itdate.Parse(f.ConsentDate); ok {
			pc.ConsentDate = &t
		}
		p.Privacy = pc
	}

	if anyPresent(f.FatherName, f.FatherPhone, f.MotherName, f.MotherPhone) {
		p.Parents = &ParentInfo{
			FatherName:  f.FatherName,
			FatherPhone: f.FatherPhone,
			MotherName:  f.MotherName,
			MotherPhone: f.MotherPhone,
		}
	}

	return p, nil
}

// ToForm maps a domain patient back to its form representation. Absent
// sections stay blank; nothing is invented.
func ToForm(p *Patient) *Form {
	f := &Form{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Phone:      p.Phone,
		Gender:     strVal(p.Gender),
		BirthPlace: strVal(p.BirthPlace),
		TaxCode:    strVal(p.TaxCode),
		Email:      strVal(p.Email),
	}

	if p.BirthDate != nil {
		f.BirthDate = itdate.Format(*p.BirthDate)
	}

	if p.Address != nil {
		f.Street = p.Address.Street
		f.City = p.Address.City
		f.Province = p.Address.Province
		f.PostalCode = p.Address.PostalCode
		f.Country = p.Address.Country
	}

	if p.Anthro != nil {
		f.Height = formatFloat(p.Anthro.HeightCM)
		f.Weight = formatFloat(p.Anthro.WeightKG)
		f.BMI = formatFloat(p.Anthro.BMI)
		f.DominantSide = p.Anthro.DominantSide
	}

	if p.Privacy != nil {
		f.ConsentTreatment = p.Privacy.Treatment
		f.ConsentDataProcessing = p.Privacy.DataProcessing
		f.ConsentMarketing = p.Privacy.Marketing
		f.ConsentNotes = p.Privacy.Notes
		if p.Privacy.ConsentDate != nil {
			f.ConsentDate = itdate.Format(*p.Privacy.ConsentDate)
		}
	}

	if p.Parents != nil {
		f.FatherName = p.Parents.FatherName
		f.FatherPhone = p.Parents.FatherPhone
		f.MotherName = p.Parents.MotherName
		f.MotherPhone = p.Parents.MotherPhone
	}

	return f
}

// ToSummary builds the list projection.
func ToSummary(p *Patient) Summary {
	s := Summary{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
	}
	if p.BirthDate != nil {
		s.BirthDate = itdate.Format(*p.BirthDate)
	}
	return s
}

func anyPresent(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return true
		}
	}
	return false
}

// parseFloat coerces user-typed numeric text, accepting the Italian decimal
// comma, and silently falls back to zero.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// optStr maps a form field to an optional column: blank means absent, and
// the stored value carries no surrounding whitespace.
func optStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
