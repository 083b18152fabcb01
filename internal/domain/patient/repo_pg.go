package patient

import (
	"context"
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

// record maps to the patient table. Optional sections are flattened into
// nullable columns; a section exists in the domain model iff at least one of
// its columns is non-null.
type record struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	BirthDate  *time.Time
	Gender     *string
	BirthPlace *string
	TaxCode    *string
	Phone      string
	Email      *string

	Street     *string
	City       *string
	Province   *string
	PostalCode *string
	Country    *string

	HeightCM     *float64
	WeightKG     *float64
	BMI          *float64
	DominantSide *string

	ConsentTreatment *bool
	ConsentData      *bool
	ConsentMarketing *bool
	ConsentDate      *time.Time
	ConsentNotes     *string

	FatherName  *string
	FatherPhone *string
	MotherName  *string
	MotherPhone *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toRecord(p *Patient) *record {
	rec := &record{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		BirthDate:  p.BirthDate,
		Gender:     p.Gender,
		BirthPlace: p.BirthPlace,
		TaxCode:    p.TaxCode,
		Phone:      p.Phone,
		Email:      p.Email,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if a := p.Address; a != nil {
		rec.Street = &a.Street
		rec.City = &a.City
		rec.Province = &a.Province
		rec.PostalCode = &a.PostalCode
		rec.Country = &a.Country
	}
	if a := p.Anthro; a != nil {
		rec.HeightCM = &a.HeightCM
		rec.WeightKG = &a.WeightKG
		rec.BMI = &a.BMI
		rec.DominantSide = &a.DominantSide
	}
	if c := p.Privacy; c != nil {
		rec.ConsentTreatment = &c.Treatment
		rec.ConsentData = &c.DataProcessing
		rec.ConsentMarketing = &c.Marketing
		rec.ConsentDate = c.ConsentDate
		rec.ConsentNotes = &c.Notes
	}
	if pi := p.Parents; pi != nil {
		rec.FatherName = &pi.FatherName
		rec.FatherPhone = &pi.FatherPhone
		rec.MotherName = &pi.MotherName
		rec.MotherPhone = &pi.MotherPhone
	}
	return rec
}

func (rec *record) toDomain() *Patient {
	p := &Patient{
		ID:         rec.ID,
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		BirthDate:  rec.BirthDate,
		Gender:     rec.Gender,
		BirthPlace: rec.BirthPlace,
		TaxCode:    rec.TaxCode,
		Phone:      rec.Phone,
		Email:      rec.Email,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	if rec.Street != nil || rec.City != nil || rec.Province != nil || rec.PostalCode != nil || rec.Country != nil {
		p.Address = &Address{
			Street:     deref(rec.Street),
			City:       deref(rec.City),
			Province:   deref(rec.Province),
			PostalCode: deref(rec.PostalCode),
			Country:    deref(rec.Country),
		}
	}
	if rec.HeightCM != nil || rec.WeightKG != nil || rec.BMI != nil || rec.DominantSide != nil {
		p.Anthro = &Anthropometrics{
			HeightCM:     derefF(rec.HeightCM),
			WeightKG:     derefF(rec.WeightKG),
			BMI:          derefF(rec.BMI),
			DominantSide: deref(rec.DominantSide),
		}
	}
	if rec.ConsentTreatment != nil || rec.ConsentData != nil || rec.ConsentMarketing != nil ||
		rec.ConsentDate != nil || rec.ConsentNotes != nil {
		p.Privacy = &PrivacyConsents{
			Treatment:      derefB(rec.ConsentTreatment),
			DataProcessing: derefB(rec.ConsentData),
			Marketing:      derefB(rec.ConsentMarketing),
			ConsentDate:    rec.ConsentDate,
			Notes:          deref(rec.ConsentNotes),
		}
	}
	if rec.FatherName != nil || rec.FatherPhone != nil || rec.MotherName != nil || rec.MotherPhone != nil {
		p.Parents = &ParentInfo{
			FatherName:  deref(rec.FatherName),
			FatherPhone: deref(rec.FatherPhone),
			MotherName:  deref(rec.MotherName),
			MotherPhone: deref(rec.MotherPhone),
		}
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefF(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefB(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

const patientCols = `id, first_name, last_name, birth_date, gender, birth_place, tax_code, phone, email,
	street, city, province, postal_code, country,
	height_cm, weight_kg, bmi, dominant_side,
	consent_treatment, consent_data, consent_marketing, consent_date, consent_notes,
	father_name, father_phone, mother_name, mother_phone,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	rec := toRecord(p)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (
			id, first_name, last_name, birth_date, gender, birth_place, tax_code, phone, email,
			street, city, province, postal_code, country,
			height_cm, weight_kg, bmi, dominant_side,
			consent_treatment, consent_data, consent_marketing, consent_date, consent_notes,
			father_name, father_phone, mother_name, mother_phone
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,
			$10,$11,$12,$13,$14,
			$15,$16,$17,$18,
			$19,$20,$21,$22,$23,
			$24,$25,$26,$27
		)`,
		rec.ID, rec.FirstName, rec.LastName, rec.BirthDate, rec.Gender, rec.BirthPlace, rec.TaxCode, rec.Phone, rec.Email,
		rec.Street, rec.City, rec.Province, rec.PostalCode, rec.Country,
		rec.HeightCM, rec.WeightKG, rec.BMI, rec.DominantSide,
		rec.ConsentTreatment, rec.ConsentData, rec.ConsentMarketing, rec.ConsentDate, rec.ConsentNotes,
		rec.FatherName, rec.FatherPhone, rec.MotherName, rec.MotherPhone,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	rec := toRecord(p)
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET
			first_name=$2, last_name=$3, birth_date=$4, gender=$5, birth_place=$6, tax_code=$7, phone=$8, email=$9,
			street=$10, city=$11, province=$12, postal_code=$13, country=$14,
			height_cm=$15, weight_kg=$16, bmi=$17, dominant_side=$18,
			consent_treatment=$19, consent_data=$20, consent_marketing=$21, consent_date=$22, consent_notes=$23,
			father_name=$24, father_phone=$25, mother_name=$26, mother_phone=$27,
			updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.FirstName, rec.LastName, rec.BirthDate, rec.Gender, rec.BirthPlace, rec.TaxCode, rec.Phone, rec.Email,
		rec.Street, rec.City, rec.Province, rec.PostalCode, rec.Country,
		rec.HeightCM, rec.WeightKG, rec.BMI, rec.DominantSide,
		rec.ConsentTreatment, rec.ConsentData, rec.ConsentMarketing, rec.ConsentDate, rec.ConsentNotes,
		rec.FatherName, rec.FatherPhone, rec.MotherName, rec.MotherPhone,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patient ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func (r *repoPG) SearchByName(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	pattern := "%" + query + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient WHERE first_name ILIKE $1 OR last_name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patient WHERE first_name ILIKE $1 OR last_name ILIKE $1
		 ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func scanRecord(row pgx.Row) (*record, error) {
	var rec record
	err := row.Scan(
		&rec.ID, &rec.FirstName, &rec.LastName, &rec.BirthDate, &rec.Gender, &rec.BirthPlace, &rec.TaxCode, &rec.Phone, &rec.Email,
		&rec.Street, &rec.City, &rec.Province, &rec.PostalCode, &rec.Country,
		&rec.HeightCM, &rec.WeightKG, &rec.BMI, &rec.DominantSide,
		&rec.ConsentTreatment, &rec.ConsentData, &rec.ConsentMarketing, &rec.ConsentDate, &rec.ConsentNotes,
		&rec.FatherName, &rec.FatherPhone, &rec.MotherName, &rec.MotherPhone,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	rec, err := scanRecord(row)
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func collectPatients(rows pgx.Rows, total int) ([]*Patient, int, error) {
	var patients []*Patient
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, rec.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}
