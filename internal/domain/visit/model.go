package visit

import (
	"time"

	"github.com/google/uuid"
)

// Visit is a single osteopathic session. The vitals, consultation reason and
// apparatus evaluation are optional: nil means the practitioner never opened
// that section.
type Visit struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	VisitDate    time.Time
	Practitioner string
	Notes        string

	Current   *CurrentData
	Reason    *ConsultationReason
	Apparatus *ApparatusEvaluation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CurrentData holds the vitals measured at the start of the session.
type CurrentData struct {
	WeightKG      float64 `json:"weightKg"`
	BMI           float64 `json:"bmi"`
	BloodPressure string  `json:"bloodPressure"`
	CranialRhythm float64 `json:"cranialRhythm"`
}

type ConsultationReason struct {
	Main      *ReasonDetail `json:"main,omitempty"`
	Secondary *ReasonDetail `json:"secondary,omitempty"`
}

type ReasonDetail struct {
	Description        string `json:"description"`
	Onset              string `json:"onset"`
	PainLevel          string `json:"painLevel"`
	VAS                int    `json:"vas"`
	AggravatingFactors string `json:"aggravatingFactors"`
	RelievingFactors   string `json:"relievingFactors"`
}

// ApparatusEvaluation bundles the twelve body-system examinations. Every
// child is optional as a whole; a child with no findings is dropped rather
// than stored empty.
type ApparatusEvaluation struct {
	Cranio              *Cranio              `json:"cranio,omitempty"`
	Respiratorio        *Respiratorio        `json:"respiratorio,omitempty"`
	Cardiovascolare     *Cardiovascolare     `json:"cardiovascolare,omitempty"`
	Gastrointestinale   *Gastrointestinale   `json:"gastrointestinale,omitempty"`
	Urinario            *Urinario            `json:"urinario,omitempty"`
	Riproduttivo        *Riproduttivo        `json:"riproduttivo,omitempty"`
	PsicoNeuroEndocrino *PsicoNeuroEndocrino `json:"psicoNeuroEndocrino,omitempty"`
	UnghieCute          *UnghieCute          `json:"unghieCute,omitempty"`
	Metabolismo         *Metabolismo         `json:"metabolismo,omitempty"`
	Linfonodi           *Linfonodi           `json:"linfonodi,omitempty"`
	MuscoloScheletrico  *MuscoloScheletrico  `json:"muscoloScheletrico,omitempty"`
	Nervoso             *Nervoso             `json:"nervoso,omitempty"`
}

type Cranio struct {
	Traumi        bool     `json:"traumi"`
	Vertigini     bool     `json:"vertigini"`
	DisturbiVista bool     `json:"disturbiVista"`
	Bruxismo      bool     `json:"bruxismo"`
	Cefalea       *Cefalea `json:"cefalea,omitempty"`
	Note          string   `json:"note"`
}

type Cefalea struct {
	Frequenza       string                  `json:"frequenza"`
	Caratteristiche *CefaleaCaratteristiche `json:"caratteristiche,omitempty"`
	Note            string                  `json:"note"`
}

type CefaleaCaratteristiche struct {
	Tipo              string `json:"tipo"`
	Sede              string `json:"sede"`
	VAS               int    `json:"vas"`
	FattoriScatenanti string `json:"fattoriScatenanti"`
}

type Respiratorio struct {
	Dispnea  bool   `json:"dispnea"`
	Tosse    bool   `json:"tosse"`
	Asma     bool   `json:"asma"`
	Allergie bool   `json:"allergie"`
	Note     string `json:"note"`
}

type Cardiovascolare struct {
	Ipertensione bool   `json:"ipertensione"`
	Palpitazioni bool   `json:"palpitazioni"`
	Edemi        bool   `json:"edemi"`
	Note         string `json:"note"`
}

type Gastrointestinale struct {
	Reflusso bool   `json:"reflusso"`
	Gonfiore bool   `json:"gonfiore"`
	Stipsi   bool   `json:"stipsi"`
	Diarrea  bool   `json:"diarrea"`
	Alvo     string `json:"alvo"`
	Note     string `json:"note"`
}

type Urinario struct {
	Incontinenza bool   `json:"incontinenza"`
	Infezioni    bool   `json:"infezioni"`
	Nicturia     bool   `json:"nicturia"`
	Note         string `json:"note"`
}

type Riproduttivo struct {
	CicloRegolare bool   `json:"cicloRegolare"`
	Dismenorrea   bool   `json:"dismenorrea"`
	Gravidanze    int    `json:"gravidanze"`
	Note          string `json:"note"`
}

type PsicoNeuroEndocrino struct {
	Ansia         bool   `json:"ansia"`
	DisturbiSonno bool   `json:"disturbiSonno"`
	Stress        string `json:"stress"`
	Tiroide       bool   `json:"tiroide"`
	Note          string `json:"note"`
}

type UnghieCute struct {
	Dermatiti     bool   `json:"dermatiti"`
	UnghieFragili bool   `json:"unghieFragili"`
	Psoriasi      bool   `json:"psoriasi"`
	Note          string `json:"note"`
}

type Metabolismo struct {
	Diabete     bool   `json:"diabete"`
	Colesterolo bool   `json:"colesterolo"`
	Osteoporosi bool   `json:"osteoporosi"`
	Note        string `json:"note"`
}

type Linfonodi struct {
	Ingrossati bool   `json:"ingrossati"`
	Dolenti    bool   `json:"dolenti"`
	Sede       string `json:"sede"`
	Note       string `json:"note"`
}

type MuscoloScheletrico struct {
	Dolore   bool   `json:"dolore"`
	Rigidita bool   `json:"rigidita"`
	Sede     string `json:"sede"`
	VAS      int    `json:"vas"`
	Note     string `json:"note"`
}

type Nervoso struct {
	Parestesie   bool   `json:"parestesie"`
	Formicolii   bool   `json:"formicolii"`
	Irradiazione string `json:"irradiazione"`
	Note         string `json:"note"`
}
