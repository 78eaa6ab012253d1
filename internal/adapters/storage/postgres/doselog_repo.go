package postgres

import (
	"context"
	"database/sql"

	"med-tracker/internal/domain/doselog"
)

// DoseLogRepo persiste el log de tomas. El contrato es append-only: no hay
// UPDATE ni DELETE por fila, solo el clear administrativo.
type DoseLogRepo struct {
	db *sql.DB
}

func NewDoseLogRepo(db *sql.DB) *DoseLogRepo {
	return &DoseLogRepo{db: db}
}

func (r *DoseLogRepo) Append(ctx context.Context, e doselog.Entry) error {
	var stockAfter any
	if e.StockAfter != nil {
		stockAfter = *e.StockAfter
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_log (
			log_id, medication_name, dose, tablets,
			stock_after, ts, method, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.LogID, e.MedicationName, e.Dose, e.Tablets,
		stockAfter, e.Timestamp, string(e.Method), e.Notes,
	)
	return err
}

func (r *DoseLogRepo) List(ctx context.Context) ([]doselog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			log_id, medication_name, dose, tablets,
			stock_after, ts, method, notes
		FROM dose_log
		ORDER BY ts ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]doselog.Entry, 0)
	for rows.Next() {
		var e doselog.Entry
		var method string
		var stockAfter sql.NullInt64

		if err := rows.Scan(
			&e.LogID, &e.MedicationName, &e.Dose, &e.Tablets,
			&stockAfter, &e.Timestamp, &method, &e.Notes,
		); err != nil {
			return nil, err
		}

		e.Method = doselog.Method(method)
		if stockAfter.Valid {
			v := int(stockAfter.Int64)
			e.StockAfter = &v
		}
		e.Immutable = true

		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *DoseLogRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM dose_log`)
	return err
}
