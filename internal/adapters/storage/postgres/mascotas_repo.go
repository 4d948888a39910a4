package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vetcontrol/internal/domain/mascotas"
)

type MascotasRepo struct {
	db *sql.DB
}

func NewMascotasRepo(db *sql.DB) *MascotasRepo {
	return &MascotasRepo{db: db}
}

func (r *MascotasRepo) Create(ctx context.Context, m mascotas.Mascota) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mascotas (
			id, nombre, tipo, raza, color,
			antecedente_vacunal, esterilizado, responsable_id,
			latitud, longitud, foto_path, created_by, creado
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		m.ID,
		m.Nombre,
		string(m.Tipo),
		m.Raza,
		m.Color,
		m.AntecedenteVacunal,
		m.Esterilizado,
		m.ResponsableID,
		toNullFloat(m.Latitud),
		toNullFloat(m.Longitud),
		m.FotoPath,
		m.CreatedBy,
		m.Creado,
	)
	return err
}

func (r *MascotasRepo) Update(ctx context.Context, m mascotas.Mascota) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mascotas
		SET
			nombre = $2,
			tipo = $3,
			raza = $4,
			color = $5,
			antecedente_vacunal = $6,
			esterilizado = $7,
			latitud = $8,
			longitud = $9,
			foto_path = $10,
			creado = $11
		WHERE id = $1
	`,
		m.ID,
		m.Nombre,
		string(m.Tipo),
		m.Raza,
		m.Color,
		m.AntecedenteVacunal,
		m.Esterilizado,
		toNullFloat(m.Latitud),
		toNullFloat(m.Longitud),
		m.FotoPath,
		m.Creado,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MascotasRepo) GetByID(ctx context.Context, id string) (mascotas.Mascota, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return mascotas.Mascota{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, nombre, tipo, raza, color,
			antecedente_vacunal, esterilizado, responsable_id,
			latitud, longitud, foto_path, created_by, creado
		FROM mascotas
		WHERE id = $1
	`, id)

	var m mascotas.Mascota
	var tipo string
	var lat, lon sql.NullFloat64
	err := row.Scan(
		&m.ID, &m.Nombre, &tipo, &m.Raza, &m.Color,
		&m.AntecedenteVacunal, &m.Esterilizado, &m.ResponsableID,
		&lat, &lon, &m.FotoPath, &m.CreatedBy, &m.Creado,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return mascotas.Mascota{}, ErrNotFound
	}
	if err != nil {
		return mascotas.Mascota{}, err
	}
	m.Tipo = mascotas.Tipo(tipo)
	m.Latitud = fromNullFloat(lat)
	m.Longitud = fromNullFloat(lon)
	return m, nil
}

func (r *MascotasRepo) ListByResponsable(ctx context.Context, responsableID string) ([]mascotas.Mascota, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, nombre, tipo, raza, color,
			antecedente_vacunal, esterilizado, responsable_id,
			latitud, longitud, foto_path, created_by, creado
		FROM mascotas
		WHERE responsable_id = $1
		ORDER BY creado ASC
	`, responsableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMascotas(rows)
}

func (r *MascotasRepo) ListAll(ctx context.Context) ([]mascotas.Mascota, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, nombre, tipo, raza, color,
			antecedente_vacunal, esterilizado, responsable_id,
			latitud, longitud, foto_path, created_by, creado
		FROM mascotas
		ORDER BY creado ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMascotas(rows)
}

func (r *MascotasRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mascotas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectMascotas(rows *sql.Rows) ([]mascotas.Mascota, error) {
	out := make([]mascotas.Mascota, 0)
	for rows.Next() {
		var m mascotas.Mascota
		var tipo string
		var lat, lon sql.NullFloat64
		if err := rows.Scan(
			&m.ID, &m.Nombre, &tipo, &m.Raza, &m.Color,
			&m.AntecedenteVacunal, &m.Esterilizado, &m.ResponsableID,
			&lat, &lon, &m.FotoPath, &m.CreatedBy, &m.Creado,
		); err != nil {
			return nil, err
		}
		m.Tipo = mascotas.Tipo(tipo)
		m.Latitud = fromNullFloat(lat)
		m.Longitud = fromNullFloat(lon)
		out = append(out, m)
	}
	return out, rows.Err()
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
