package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"med-tracker/internal/domain/medications"
)

// HistoryRepo persiste el journal de cambios. Los snapshots before/after y
// el resultado del take van como JSONB; el journal se lee entero y no se
// consulta por campos internos.
type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Append(ctx context.Context, e medications.ChangeEvent) error {
	before, err := marshalNullable(e.Before)
	if err != nil {
		return err
	}
	after, err := marshalNullable(e.After)
	if err != nil {
		return err
	}
	take, err := marshalNullable(e.Take)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medication_history (
			event_id, medication_id, name, action, ts,
			before_state, after_state, take_result
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.EventID, e.MedicationID, e.Name, string(e.Action), e.Timestamp,
		before, after, take,
	)
	return err
}

func (r *HistoryRepo) List(ctx context.Context) ([]medications.ChangeEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			event_id, medication_id, name, action, ts,
			before_state, after_state, take_result
		FROM medication_history
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.ChangeEvent, 0)
	for rows.Next() {
		var e medications.ChangeEvent
		var action string
		var before, after, take []byte

		if err := rows.Scan(
			&e.EventID, &e.MedicationID, &e.Name, &action, &e.Timestamp,
			&before, &after, &take,
		); err != nil {
			return nil, err
		}

		e.Action = medications.ChangeAction(action)
		if len(before) > 0 {
			var m medications.Medication
			if err := json.Unmarshal(before, &m); err != nil {
				return nil, err
			}
			e.Before = &m
		}
		if len(after) > 0 {
			var m medications.Medication
			if err := json.Unmarshal(after, &m); err != nil {
				return nil, err
			}
			e.After = &m
		}
		if len(take) > 0 {
			var tr medications.TakeResult
			if err := json.Unmarshal(take, &tr); err != nil {
				return nil, err
			}
			e.Take = &tr
		}

		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *HistoryRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM medication_history`)
	return err
}

// marshalNullable serializa un puntero a JSON, o NULL si es nil.
func marshalNullable(v any) (any, error) {
	switch x := v.(type) {
	case *medications.Medication:
		if x == nil {
			return nil, nil
		}
	case *medications.TakeResult:
		if x == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}
