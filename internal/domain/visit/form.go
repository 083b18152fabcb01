package visit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/osteo/cartella/pkg/itdate"
)

// Form is the visit as the add/edit screen submits it: scalars are strings,
// the date is Italian DD/MM/YYYY, the apparatus tree is sent as-is since it
// is checkbox and enum driven.
type Form struct {
	VisitDate    string `json:"visitDate"`
	Practitioner string `json:"practitioner"`
	Notes        string `json:"notes"`

	Weight        string `json:"weight"`
	BMI           string `json:"bmi"`
	BloodPressure string `json:"bloodPressure"`
	CranialRhythm string `json:"cranialRhythm"`

	MainReason      *ReasonForm `json:"mainReason,omitempty"`
	SecondaryReason *ReasonForm `json:"secondaryReason,omitempty"`

	Apparatus *ApparatusEvaluation `json:"apparatus,omitempty"`
}

type ReasonForm struct {
	Description        string `json:"description"`
	Onset              string `json:"onset"`
	PainLevel          string `json:"painLevel"`
	VAS                string `json:"vas"`
	AggravatingFactors string `json:"aggravatingFactors"`
	RelievingFactors   string `json:"relievingFactors"`
}

// FromForm maps the submitted form onto the domain model. The visit date is
// the only fatal validation: everything else coerces silently, optional
// sections exist only when at least one of their fields is set.
func FromForm(f *Form) (*Visit, error) {
	date, ok := itdate.Parse(f.VisitDate)
	if !ok {
		return nil, fmt.Errorf("visit date %q is not a valid date", f.VisitDate)
	}

	v := &Visit{
		VisitDate:    date,
		Practitioner: strings.TrimSpace(f.Practitioner),
		Notes:        f.Notes,
	}

	if f.Weight != "" || f.BMI != "" || f.BloodPressure != "" || f.CranialRhythm != "" {
		v.Current = &CurrentData{
			WeightKG:      parseFloat(f.Weight),
			BMI:           parseFloat(f.BMI),
			BloodPressure: strings.TrimSpace(f.BloodPressure),
			CranialRhythm: parseFloat(f.CranialRhythm),
		}
	}

	main := reasonFromForm(f.MainReason)
	secondary := reasonFromForm(f.SecondaryReason)
	if main != nil || secondary != nil {
		v.Reason = &ConsultationReason{Main: main, Secondary: secondary}
	}

	v.Apparatus = f.Apparatus.Prune()

	return v, nil
}

func ToForm(v *Visit) *Form {
	f := &Form{
		VisitDate:    itdate.Format(v.VisitDate),
		Practitioner: v.Practitioner,
		Notes:        v.Notes,
		Apparatus:    v.Apparatus,
	}
	if c := v.Current; c != nil {
		f.Weight = formatFloat(c.WeightKG)
		f.BMI = formatFloat(c.BMI)
		f.BloodPressure = c.BloodPressure
		f.CranialRhythm = formatFloat(c.CranialRhythm)
	}
	if r := v.Reason; r != nil {
		f.MainReason = reasonToForm(r.Main)
		f.SecondaryReason = reasonToForm(r.Secondary)
	}
	return f
}

// Summary is the row shown in the patient's visit list.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	VisitDate    string    `json:"visitDate"`
	Practitioner string    `json:"practitioner"`
	MainReason   string    `json:"mainReason"`
}

func ToSummary(v *Visit) Summary {
	s := Summary{
		ID:           v.ID,
		VisitDate:    itdate.Format(v.VisitDate),
		Practitioner: v.Practitioner,
	}
	if v.Reason != nil && v.Reason.Main != nil {
		s.MainReason = v.Reason.Main.Description
	}
	return s
}

func reasonFromForm(rf *ReasonForm) *ReasonDetail {
	if rf == nil {
		return nil
	}
	if rf.Description == "" && rf.Onset == "" && rf.PainLevel == "" && rf.VAS == "" &&
		rf.AggravatingFactors == "" && rf.RelievingFactors == "" {
		return nil
	}
	return &ReasonDetail{
		Description:        strings.TrimSpace(rf.Description),
		Onset:              rf.Onset,
		PainLevel:          rf.PainLevel,
		VAS:                parseVAS(rf.VAS),
		AggravatingFactors: rf.AggravatingFactors,
		RelievingFactors:   rf.RelievingFactors,
	}
}

func reasonToForm(r *ReasonDetail) *ReasonForm {
	if r == nil {
		return nil
	}
	f := &ReasonForm{
		Description:        r.Description,
		Onset:              r.Onset,
		PainLevel:          r.PainLevel,
		AggravatingFactors: r.AggravatingFactors,
		RelievingFactors:   r.RelievingFactors,
	}
	if r.VAS != 0 {
		f.VAS = strconv.Itoa(r.VAS)
	}
	return f
}

// parseVAS coerces to 0 on garbage and clamps to the 0..10 scale.
func parseVAS(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
