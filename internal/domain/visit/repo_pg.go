package visit

import (
	"context"
	"fmt"
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

// isoDate is the storage layout for visit dates. Keeping them as ISO text
// makes the DESC ordering a plain lexicographic sort.
const isoDate = "2006-01-02"

// record maps to the visit table. The nested sections are jsonb columns;
// null means the section was never filled in.
type record struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	VisitDate    string
	Practitioner string
	Notes        string

	Current   *CurrentData
	Reason    *ConsultationReason
	Apparatus *ApparatusEvaluation

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toRecord(v *Visit) *record {
	return &record{
		ID:           v.ID,
		PatientID:    v.PatientID,
		VisitDate:    v.VisitDate.Format(isoDate),
		Practitioner: v.Practitioner,
		Notes:        v.Notes,
		Current:      v.Current,
		Reason:       v.Reason,
		Apparatus:    v.Apparatus,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func (rec *record) toDomain() (*Visit, error) {
	date, err := time.Parse(isoDate, rec.VisitDate)
	if err != nil {
		return nil, fmt.Errorf("visit %s has malformed date %q: %w", rec.ID, rec.VisitDate, err)
	}
	return &Visit{
		ID:           rec.ID,
		PatientID:    rec.PatientID,
		VisitDate:    date,
		Practitioner: rec.Practitioner,
		Notes:        rec.Notes,
		Current:      rec.Current,
		Reason:       rec.Reason,
		Apparatus:    rec.Apparatus,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}, nil
}

const visitCols = `id, patient_id, visit_date, practitioner, notes, current_data, reason, apparatus, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	rec := toRecord(v)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO visit (id, patient_id, visit_date, practitioner, notes, current_data, reason, apparatus)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.PatientID, rec.VisitDate, rec.Practitioner, rec.Notes, rec.Current, rec.Reason, rec.Apparatus,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return scanVisit(r.conn(ctx).QueryRow(ctx, `SELECT `+visitCols+` FROM visit WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, v *Visit) error {
	rec := toRecord(v)
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE visit SET
			patient_id=$2, visit_date=$3, practitioner=$4, notes=$5,
			current_data=$6, reason=$7, apparatus=$8, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.PatientID, rec.VisitDate, rec.Practitioner, rec.Notes, rec.Current, rec.Reason, rec.Apparatus,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM visit WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Visit, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+visitCols+` FROM visit WHERE patient_id = $1 ORDER BY visit_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Visit, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+visitCols+` FROM visit ORDER BY visit_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return visits, nil
}

func scanVisit(row pgx.Row) (*Visit, error) {
	var rec record
	err := row.Scan(
		&rec.ID, &rec.PatientID, &rec.VisitDate, &rec.Practitioner, &rec.Notes,
		&rec.Current, &rec.Reason, &rec.Apparatus,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec.toDomain()
}
