package history

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osteo/cartella/pkg/itdate"
)

// Form is the clinical history as the anamnesis screen submits it. Every
// scalar is a string, dates are Italian DD/MM/YYYY, and the allergy list is
// one comma-separated field.
type Form struct {
	HasDrugAllergies  bool   `json:"hasDrugAllergies"`
	DrugAllergiesList string `json:"drugAllergiesList"`
	HasDiabetes       bool   `json:"hasDiabetes"`
	DiabetesType      string `json:"diabetesType"`
	HasHypertension   bool   `json:"hasHypertension"`
	HasCardiopathy    bool   `json:"hasCardiopathy"`
	HasThyroidDisease bool   `json:"hasThyroidDisease"`

	SmokingStatus    string `json:"smokingStatus"`
	CigarettesPerDay string `json:"cigarettesPerDay"`
	SmokingYears     string `json:"smokingYears"`
	WorkType         string `json:"workType"`
	Profession       string `json:"profession"`
	WorkHoursPerDay  string `json:"workHoursPerDay"`
	DoesSport        bool   `json:"doesSport"`
	Sports           string `json:"sports"`
	SportFrequency   string `json:"sportFrequency"`
	SportIntensity   string `json:"sportIntensity"`

	Pregnancy   string `json:"pregnancy"`
	Birth       string `json:"birth"`
	Development string `json:"development"`

	Therapies       []TherapyForm        `json:"therapies"`
	Interventions   []InterventionForm   `json:"interventions"`
	DiagnosticTests []DiagnosticTestForm `json:"diagnosticTests"`
}

type TherapyForm struct {
	ID        string `json:"id"`
	DrugName  string `json:"drugName"`
	Dosage    string `json:"dosage"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsOngoing bool   `json:"isOngoing"`
	Notes     string `json:"notes"`
}

type InterventionForm struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Date        string `json:"date"`
	Notes       string `json:"notes"`
}

type DiagnosticTestForm struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Result string `json:"result"`
	Notes  string `json:"notes"`
}

// FromForm maps the submitted form onto the domain aggregate. Sections come
// into existence only when at least one of their fields is set; unparseable
// numbers fall back to zero and unparseable dates to nil.
func FromForm(f *Form) *ClinicalHistory {
	h := &ClinicalHistory{}

	if f.HasDrugAllergies || f.DrugAllergiesList != "" || f.HasDiabetes || f.DiabetesType != "" ||
		f.HasHypertension || f.HasCardiopathy || f.HasThyroidDisease {
		h.Chronic = &ChronicConditions{
			HasDrugAllergies:  f.HasDrugAllergies,
			DrugAllergies:     splitList(f.DrugAllergiesList),
			HasDiabetes:       f.HasDiabetes,
			DiabetesType:      strings.TrimSpace(f.DiabetesType),
			HasHypertension:   f.HasHypertension,
			HasCardiopathy:    f.HasCardiopathy,
			HasThyroidDisease: f.HasThyroidDisease,
		}
	}

	if f.SmokingStatus != "" || f.CigarettesPerDay != "" || f.SmokingYears != "" ||
		f.WorkType != "" || f.Profession != "" || f.WorkHoursPerDay != "" ||
		f.DoesSport || f.Sports != "" || f.SportFrequency != "" || f.SportIntensity != "" {
		h.Lifestyle = &Lifestyle{
			SmokingStatus:    f.SmokingStatus,
			CigarettesPerDay: parseInt(f.CigarettesPerDay),
			SmokingYears:     parseInt(f.SmokingYears),
			WorkType:         f.WorkType,
			Profession:       strings.TrimSpace(f.Profession),
			WorkHoursPerDay:  parseInt(f.WorkHoursPerDay),
			DoesSport:        f.DoesSport,
			Sports:           strings.TrimSpace(f.Sports),
			SportFrequency:   f.SportFrequency,
			SportIntensity:   f.SportIntensity,
		}
	}

	if f.Pregnancy != "" || f.Birth != "" || f.Development != "" {
		h.Pediatric = &PediatricHistory{
			Pregnancy:   f.Pregnancy,
			Birth:       f.Birth,
			Development: f.Development,
		}
	}

	for _, tf := range f.Therapies {
		t := Therapy{
			ID:        parseID(tf.ID),
			DrugName:  strings.TrimSpace(tf.DrugName),
			Dosage:    strings.TrimSpace(tf.Dosage),
			StartDate: parseDate(tf.StartDate),
			EndDate:   parseDate(tf.EndDate),
			IsOngoing: tf.IsOngoing,
			Notes:     tf.Notes,
		}
		h.Therapies = append(h.Therapies, t)
	}
	for _, inf := range f.Interventions {
		h.Interventions = append(h.Interventions, Intervention{
			ID:          parseID(inf.ID),
			Description: strings.TrimSpace(inf.Description),
			Kind:        inf.Kind,
			Date:        parseDate(inf.Date),
			Notes:       inf.Notes,
		})
	}
	for _, df := range f.DiagnosticTests {
		h.DiagnosticTests = append(h.DiagnosticTests, DiagnosticTest{
			ID:     parseID(df.ID),
			Name:   strings.TrimSpace(df.Name),
			Date:   parseDate(df.Date),
			Result: df.Result,
			Notes:  df.Notes,
		})
	}

	return h
}

func ToForm(h *ClinicalHistory) *Form {
	f := &Form{}

	if c := h.Chronic; c != nil {
		f.HasDrugAllergies = c.HasDrugAllergies
		f.DrugAllergiesList = strings.Join(c.DrugAllergies, ", ")
		f.HasDiabetes = c.HasDiabetes
		f.DiabetesType = c.DiabetesType
		f.HasHypertension = c.HasHypertension
		f.HasCardiopathy = c.HasCardiopathy
		f.HasThyroidDisease = c.HasThyroidDisease
	}
	if l := h.Lifestyle; l != nil {
		f.SmokingStatus = l.SmokingStatus
		f.CigarettesPerDay = formatInt(l.CigarettesPerDay)
		f.SmokingYears = formatInt(l.SmokingYears)
		f.WorkType = l.WorkType
		f.Profession = l.Profession
		f.WorkHoursPerDay = formatInt(l.WorkHoursPerDay)
		f.DoesSport = l.DoesSport
		f.Sports = l.Sports
		f.SportFrequency = l.SportFrequency
		f.SportIntensity = l.SportIntensity
	}
	if p := h.Pediatric; p != nil {
		f.Pregnancy = p.Pregnancy
		f.Birth = p.Birth
		f.Development = p.Development
	}

	for _, t := range h.Therapies {
		f.Therapies = append(f.Therapies, TherapyForm{
			ID:        t.ID.String(),
			DrugName:  t.DrugName,
			Dosage:    t.Dosage,
			StartDate: formatDate(t.StartDate),
			EndDate:   formatDate(t.EndDate),
			IsOngoing: t.IsOngoing,
			Notes:     t.Notes,
		})
	}
	for _, in := range h.Interventions {
		f.Interventions = append(f.Interventions, InterventionForm{
			ID:          in.ID.String(),
			Description: in.Description,
			Kind:        in.Kind,
			Date:        formatDate(in.Date),
			Notes:       in.Notes,
		})
	}
	for _, d := range h.DiagnosticTests {
		f.DiagnosticTests = append(f.DiagnosticTests, DiagnosticTestForm{
			ID:     d.ID.String(),
			Name:   d.Name,
			Date:   formatDate(d.Date),
			Result: d.Result,
			Notes:  d.Notes,
		})
	}

	return f
}

// splitList turns "penicillin, latex" into ["penicillin" "latex"].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func formatInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parseDate(s string) *time.Time {
	t, ok := itdate.Parse(s)
	if !ok {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return itdate.Format(*t)
}

// parseID accepts the empty-id sentinel for entries the screen just added;
// the service assigns a real identifier at save time.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
