package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osteo/cartella/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// record is the clinical_history header row. Chronic and lifestyle sections
// are flattened into nullable columns, the pediatric sub-record is a jsonb
// column. A section exists in the domain model iff at least one of its
// columns is non-null.
type record struct {
	ID        uuid.UUID
	PatientID uuid.UUID

	HasDrugAllergies  *bool
	DrugAllergies     []string
	HasDiabetes       *bool
	DiabetesType      *string
	HasHypertension   *bool
	HasCardiopathy    *bool
	HasThyroidDisease *bool

	SmokingStatus    *string
	CigarettesPerDay *int
	SmokingYears     *int
	WorkType         *string
	Profession       *string
	WorkHoursPerDay  *int
	DoesSport        *bool
	Sports           *string
	SportFrequency   *string
	SportIntensity   *string

	Pediatric *PediatricHistory

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toRecord(h *ClinicalHistory) *record {
	rec := &record{
		ID:        h.ID,
		PatientID: h.PatientID,
		Pediatric: h.Pediatric,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
	if c := h.Chronic; c != nil {
		rec.HasDrugAllergies = &c.HasDrugAllergies
		rec.DrugAllergies = c.DrugAllergies
		rec.HasDiabetes = &c.HasDiabetes
		rec.DiabetesType = &c.DiabetesType
		rec.HasHypertension = &c.HasHypertension
		rec.HasCardiopathy = &c.HasCardiopathy
		rec.HasThyroidDisease = &c.HasThyroidDisease
	}
	if l := h.Lifestyle; l != nil {
		rec.SmokingStatus = &l.SmokingStatus
		rec.CigarettesPerDay = &l.CigarettesPerDay
		rec.SmokingYears = &l.SmokingYears
		rec.WorkType = &l.WorkType
		rec.Profession = &l.Profession
		rec.WorkHoursPerDay = &l.WorkHoursPerDay
		rec.DoesSport = &l.DoesSport
		rec.Sports = &l.Sports
		rec.SportFrequency = &l.SportFrequency
		rec.SportIntensity = &l.SportIntensity
	}
	return rec
}

func (rec *record) toDomain() *ClinicalHistory {
	h := &ClinicalHistory{
		ID:        rec.ID,
		PatientID: rec.PatientID,
		Pediatric: rec.Pediatric,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.HasDrugAllergies != nil || rec.DrugAllergies != nil || rec.HasDiabetes != nil ||
		rec.DiabetesType != nil || rec.HasHypertension != nil || rec.HasCardiopathy != nil ||
		rec.HasThyroidDisease != nil {
		h.Chronic = &ChronicConditions{
			HasDrugAllergies:  derefB(rec.HasDrugAllergies),
			DrugAllergies:     rec.DrugAllergies,
			HasDiabetes:       derefB(rec.HasDiabetes),
			DiabetesType:      deref(rec.DiabetesType),
			HasHypertension:   derefB(rec.HasHypertension),
			HasCardiopathy:    derefB(rec.HasCardiopathy),
			HasThyroidDisease: derefB(rec.HasThyroidDisease),
		}
	}
	if rec.SmokingStatus != nil || rec.CigarettesPerDay != nil || rec.SmokingYears != nil ||
		rec.WorkType != nil || rec.Profession != nil || rec.WorkHoursPerDay != nil ||
		rec.DoesSport != nil || rec.Sports != nil || rec.SportFrequency != nil || rec.SportIntensity != nil {
		h.Lifestyle = &Lifestyle{
			SmokingStatus:    deref(rec.SmokingStatus),
			CigarettesPerDay: derefI(rec.CigarettesPerDay),
			SmokingYears:     derefI(rec.SmokingYears),
			WorkType:         deref(rec.WorkType),
			Profession:       deref(rec.Profession),
			WorkHoursPerDay:  derefI(rec.WorkHoursPerDay),
			DoesSport:        derefB(rec.DoesSport),
			Sports:           deref(rec.Sports),
			SportFrequency:   deref(rec.SportFrequency),
			SportIntensity:   deref(rec.SportIntensity),
		}
	}
	return h
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefI(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func derefB(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

const historyCols = `id, patient_id,
	has_drug_allergies, drug_allergies, has_diabetes, diabetes_type,
	has_hypertension, has_cardiopathy, has_thyroid_disease,
	smoking_status, cigarettes_per_day, smoking_years, work_type, profession, work_hours_per_day,
	does_sport, sports, sport_frequency, sport_intensity,
	pediatric, created_at, updated_at`

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*ClinicalHistory, error) {
	q := r.conn(ctx)

	var rec record
	err := q.QueryRow(ctx,
		`SELECT `+historyCols+` FROM clinical_history WHERE patient_id = $1`, patientID,
	).Scan(
		&rec.ID, &rec.PatientID,
		&rec.HasDrugAllergies, &rec.DrugAllergies, &rec.HasDiabetes, &rec.DiabetesType,
		&rec.HasHypertension, &rec.HasCardiopathy, &rec.HasThyroidDisease,
		&rec.SmokingStatus, &rec.CigarettesPerDay, &rec.SmokingYears, &rec.WorkType, &rec.Profession, &rec.WorkHoursPerDay,
		&rec.DoesSport, &rec.Sports, &rec.SportFrequency, &rec.SportIntensity,
		&rec.Pediatric, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	h := rec.toDomain()
	if err := r.loadChildren(ctx, q, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *repoPG) loadChildren(ctx context.Context, q querier, h *ClinicalHistory) error {
	rows, err := q.Query(ctx, `
		SELECT id, drug_name, dosage, start_date, end_date, is_ongoing, notes
		FROM therapy WHERE history_id = $1 ORDER BY position`, h.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var t Therapy
		if err := rows.Scan(&t.ID, &t.DrugName, &t.Dosage, &t.StartDate, &t.EndDate, &t.IsOngoing, &t.Notes); err != nil {
			return err
		}
		h.Therapies = append(h.Therapies, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, `
		SELECT id, description, kind, date, notes
		FROM intervention WHERE history_id = $1 ORDER BY position`, h.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var in Intervention
		if err := rows.Scan(&in.ID, &in.Description, &in.Kind, &in.Date, &in.Notes); err != nil {
			return err
		}
		h.Interventions = append(h.Interventions, in)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, `
		SELECT id, name, date, result, notes
		FROM diagnostic_test WHERE history_id = $1 ORDER BY position`, h.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var d DiagnosticTest
		if err := rows.Scan(&d.ID, &d.Name, &d.Date, &d.Result, &d.Notes); err != nil {
			return err
		}
		h.DiagnosticTests = append(h.DiagnosticTests, d)
	}
	return rows.Err()
}

// Save upserts the header row and rewrites the three child collections in one
// transaction. Runs inside the caller's transaction when one is already on
// the context.
func (r *repoPG) Save(ctx context.Context, h *ClinicalHistory) error {
	if db.TxFromContext(ctx) != nil {
		return r.save(ctx, r.conn(ctx), h)
	}
	return db.WithTx(ctx, r.pool, func(txCtx context.Context) error {
		return r.save(txCtx, r.conn(txCtx), h)
	})
}

func (r *repoPG) save(ctx context.Context, q querier, h *ClinicalHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	rec := toRecord(h)

	err := q.QueryRow(ctx, `
		INSERT INTO clinical_history (
			id, patient_id,
			has_drug_allergies, drug_allergies, has_diabetes, diabetes_type,
			has_hypertension, has_cardiopathy, has_thyroid_disease,
			smoking_status, cigarettes_per_day, smoking_years, work_type, profession, work_hours_per_day,
			does_sport, sports, sport_frequency, sport_intensity,
			pediatric
		) VALUES (
			$1,$2,
			$3,$4,$5,$6,
			$7,$8,$9,
			$10,$11,$12,$13,$14,$15,
			$16,$17,$18,$19,
			$20
		)
		ON CONFLICT (patient_id) DO UPDATE SET
			has_drug_allergies=EXCLUDED.has_drug_allergies, drug_allergies=EXCLUDED.drug_allergies,
			has_diabetes=EXCLUDED.has_diabetes, diabetes_type=EXCLUDED.diabetes_type,
			has_hypertension=EXCLUDED.has_hypertension, has_cardiopathy=EXCLUDED.has_cardiopathy,
			has_thyroid_disease=EXCLUDED.has_thyroid_disease,
			smoking_status=EXCLUDED.smoking_status, cigarettes_per_day=EXCLUDED.cigarettes_per_day,
			smoking_years=EXCLUDED.smoking_years, work_type=EXCLUDED.work_type,
			profession=EXCLUDED.profession, work_hours_per_day=EXCLUDED.work_hours_per_day,
			does_sport=EXCLUDED.does_sport, sports=EXCLUDED.sports,
			sport_frequency=EXCLUDED.sport_frequency, sport_intensity=EXCLUDED.sport_intensity,
			pediatric=EXCLUDED.pediatric,
			updated_at=NOW()
		RETURNING id`,
		rec.ID, rec.PatientID,
		rec.HasDrugAllergies, rec.DrugAllergies, rec.HasDiabetes, rec.DiabetesType,
		rec.HasHypertension, rec.HasCardiopathy, rec.HasThyroidDisease,
		rec.SmokingStatus, rec.CigarettesPerDay, rec.SmokingYears, rec.WorkType, rec.Profession, rec.WorkHoursPerDay,
		rec.DoesSport, rec.Sports, rec.SportFrequency, rec.SportIntensity,
		rec.Pediatric,
	).Scan(&h.ID)
	if err != nil {
		return err
	}

	for _, table := range []string{"therapy", "intervention", "diagnostic_test"} {
		if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE history_id = $1`, h.ID); err != nil {
			return err
		}
	}

	for i, t := range h.Therapies {
		if _, err := q.Exec(ctx, `
			INSERT INTO therapy (id, history_id, position, drug_name, dosage, start_date, end_date, is_ongoing, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			t.ID, h.ID, i, t.DrugName, t.Dosage, t.StartDate, t.EndDate, t.IsOngoing, t.Notes); err != nil {
			return err
		}
	}
	for i, in := range h.Interventions {
		if _, err := q.Exec(ctx, `
			INSERT INTO intervention (id, history_id, position, description, kind, date, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			in.ID, h.ID, i, in.Description, in.Kind, in.Date, in.Notes); err != nil {
			return err
		}
	}
	for i, d := range h.DiagnosticTests {
		if _, err := q.Exec(ctx, `
			INSERT INTO diagnostic_test (id, history_id, position, name, date, result, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			d.ID, h.ID, i, d.Name, d.Date, d.Result, d.Notes); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM clinical_history WHERE patient_id = $1`, patientID)
	return err
}
