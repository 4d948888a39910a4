package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vetcontrol/internal/domain/perdidas"
)

type PerdidasRepo struct {
	db *sql.DB
}

func NewPerdidasRepo(db *sql.DB) *PerdidasRepo {
	return &PerdidasRepo{db: db}
}

func (r *PerdidasRepo) Create(ctx context.Context, p perdidas.RegistroPerdida) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO perdidas (
			id, registrado_por, cantidad, lote_vacuna, motivo,
			foto_path, latitud, longitud,
			fecha_registro, fecha_perdida, sincronizado, uuid_local
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.RegistradoPor,
		p.Cantidad,
		p.LoteVacuna,
		p.Motivo,
		p.FotoPath,
		toNullFloat(p.Latitud),
		toNullFloat(p.Longitud),
		p.FechaRegistro,
		p.FechaPerdida,
		p.Sincronizado,
		p.UUIDLocal,
	)
	return err
}

func (r *PerdidasRepo) Update(ctx context.Context, p perdidas.RegistroPerdida) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE perdidas
		SET
			cantidad = $2,
			lote_vacuna = $3,
			motivo = $4,
			foto_path = $5,
			fecha_perdida = $6,
			sincronizado = $7
		WHERE id = $1
	`,
		p.ID,
		p.Cantidad,
		p.LoteVacuna,
		p.Motivo,
		p.FotoPath,
		p.FechaPerdida,
		p.Sincronizado,
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

func (r *PerdidasRepo) GetByID(ctx context.Context, id string) (perdidas.RegistroPerdida, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return perdidas.RegistroPerdida{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, registrado_por, cantidad, lote_vacuna, motivo,
			foto_path, latitud, longitud,
			fecha_registro, fecha_perdida, sincronizado, uuid_local
		FROM perdidas
		WHERE id = $1
	`, id)
	return scanPerdida(row)
}

func (r *PerdidasRepo) GetByUUIDLocal(ctx context.Context, uuidLocal string) (perdidas.RegistroPerdida, error) {
	uuidLocal = strings.TrimSpace(uuidLocal)
	if uuidLocal == "" {
		return perdidas.RegistroPerdida{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, registrado_por, cantidad, lote_vacuna, motivo,
			foto_path, latitud, longitud,
			fecha_registro, fecha_perdida, sincronizado, uuid_local
		FROM perdidas
		WHERE uuid_local = $1
	`, uuidLocal)
	return scanPerdida(row)
}

func (r *PerdidasRepo) ListByUsuario(ctx context.Context, userID string) ([]perdidas.RegistroPerdida, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, registrado_por, cantidad, lote_vacuna, motivo,
			foto_path, latitud, longitud,
			fecha_registro, fecha_perdida, sincronizado, uuid_local
		FROM perdidas
		WHERE registrado_por = $1
		ORDER BY fecha_registro ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPerdidas(rows)
}

func (r *PerdidasRepo) ListAll(ctx context.Context) ([]perdidas.RegistroPerdida, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, registrado_por, cantidad, lote_vacuna, motivo,
			foto_path, latitud, longitud,
			fecha_registro, fecha_perdida, sincronizado, uuid_local
		FROM perdidas
		ORDER BY fecha_registro ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPerdidas(rows)
}

func scanPerdida(row *sql.Row) (perdidas.RegistroPerdida, error) {
	var p perdidas.RegistroPerdida
	var lat, lon sql.NullFloat64
	err := row.Scan(
		&p.ID, &p.RegistradoPor, &p.Cantidad, &p.LoteVacuna, &p.Motivo,
		&p.FotoPath, &lat, &lon,
		&p.FechaRegistro, &p.FechaPerdida, &p.Sincronizado, &p.UUIDLocal,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return perdidas.RegistroPerdida{}, ErrNotFound
	}
	if err != nil {
		return perdidas.RegistroPerdida{}, err
	}
	p.Latitud = fromNullFloat(lat)
	p.Longitud = fromNullFloat(lon)
	return p, nil
}

func collectPerdidas(rows *sql.Rows) ([]perdidas.RegistroPerdida, error) {
	out := make([]perdidas.RegistroPerdida, 0)
	for rows.Next() {
		var p perdidas.RegistroPerdida
		var lat, lon sql.NullFloat64
		if err := rows.Scan(
			&p.ID, &p.RegistradoPor, &p.Cantidad, &p.LoteVacuna, &p.Motivo,
			&p.FotoPath, &lat, &lon,
			&p.FechaRegistro, &p.FechaPerdida, &p.Sincronizado, &p.UUIDLocal,
		); err != nil {
			return nil, err
		}
		p.Latitud = fromNullFloat(lat)
		p.Longitud = fromNullFloat(lon)
		out = append(out, p)
	}
	return out, rows.Err()
}
