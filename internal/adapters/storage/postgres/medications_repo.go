package postgres

import (
	"context"
	"database/sql"
	"strings"

	"med-tracker/internal/domain/medications"
)

// MedicationsRepo persiste los medicamentos en la tabla medications.
// La columna position (bigserial) preserva el orden de inserción para List.
type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

const medicationColumns = `
	id, name, dose, notes, times,
	tablets_per_dose, tablets_per_package, doses_per_day,
	stock, taken_today,
	created_at, updated_at
`

func (r *MedicationsRepo) List(ctx context.Context) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE id = $1
	`, id)

	m, err := scanMedication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, medications.ErrNotFound
		}
		return medications.Medication{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, name, dose, notes, times,
			tablets_per_dose, tablets_per_package, doses_per_day,
			stock, taken_today,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		m.ID, m.Name, m.Dose, m.Notes, m.Times,
		m.TabletsPerDose, m.TabletsPerPackage, m.DosesPerDay,
		m.Stock, m.TakenToday,
		m.CreatedAt, m.UpdatedAt,
	)
	return err
}

// Put reemplaza el registro completo, o lo inserta si el id no existía.
// En el upsert la position original se conserva, así el orden de la agenda
// no cambia por editar.
func (r *MedicationsRepo) Put(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, name, dose, notes, times,
			tablets_per_dose, tablets_per_package, doses_per_day,
			stock, taken_today,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			dose = EXCLUDED.dose,
			notes = EXCLUDED.notes,
			times = EXCLUDED.times,
			tablets_per_dose = EXCLUDED.tablets_per_dose,
			tablets_per_package = EXCLUDED.tablets_per_package,
			doses_per_day = EXCLUDED.doses_per_day,
			stock = EXCLUDED.stock,
			taken_today = EXCLUDED.taken_today,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`,
		m.ID, m.Name, m.Dose, m.Notes, m.Times,
		m.TabletsPerDose, m.TabletsPerPackage, m.DosesPerDay,
		m.Stock, m.TakenToday,
		m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM medications
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var m medications.Medication
	err := row.Scan(
		&m.ID, &m.Name, &m.Dose, &m.Notes, &m.Times,
		&m.TabletsPerDose, &m.TabletsPerPackage, &m.DosesPerDay,
		&m.Stock, &m.TakenToday,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}
