package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vetcontrol/internal/domain/responsables"
)

type ResponsablesRepo struct {
	db *sql.DB
}

func NewResponsablesRepo(db *sql.DB) *ResponsablesRepo {
	return &ResponsablesRepo{db: db}
}

func (r *ResponsablesRepo) Create(ctx context.Context, item responsables.Responsable) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO responsables (
			id, nombre, telefono, finca, planilla_id,
			zona, nombre_zona, lote_vacuna, created_by, creado
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		item.ID,
		item.Nombre,
		item.Telefono,
		item.Finca,
		item.PlanillaID,
		item.Zona,
		item.NombreZona,
		item.LoteVacuna,
		item.CreatedBy,
		item.Creado,
	)
	return err
}

func (r *ResponsablesRepo) Update(ctx context.Context, item responsables.Responsable) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE responsables
		SET
			nombre = $2,
			telefono = $3,
			finca = $4,
			zona = $5,
			nombre_zona = $6,
			lote_vacuna = $7,
			creado = $8
		WHERE id = $1
	`,
		item.ID,
		item.Nombre,
		item.Telefono,
		item.Finca,
		item.Zona,
		item.NombreZona,
		item.LoteVacuna,
		item.Creado,
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

func (r *ResponsablesRepo) GetByID(ctx context.Context, id string) (responsables.Responsable, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return responsables.Responsable{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, nombre, telefono, finca, planilla_id,
			zona, nombre_zona, lote_vacuna, created_by, creado
		FROM responsables
		WHERE id = $1
	`, id)

	var item responsables.Responsable
	err := row.Scan(
		&item.ID, &item.Nombre, &item.Telefono, &item.Finca, &item.PlanillaID,
		&item.Zona, &item.NombreZona, &item.LoteVacuna, &item.CreatedBy, &item.Creado,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return responsables.Responsable{}, ErrNotFound
	}
	if err != nil {
		return responsables.Responsable{}, err
	}
	return item, nil
}

func (r *ResponsablesRepo) ListByPlanilla(ctx context.Context, planillaID string) ([]responsables.Responsable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, nombre, telefono, finca, planilla_id,
			zona, nombre_zona, lote_vacuna, created_by, creado
		FROM responsables
		WHERE planilla_id = $1
		ORDER BY creado ASC
	`, planillaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResponsables(rows)
}

func (r *ResponsablesRepo) ListAll(ctx context.Context) ([]responsables.Responsable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, nombre, telefono, finca, planilla_id,
			zona, nombre_zona, lote_vacuna, created_by, creado
		FROM responsables
		ORDER BY creado ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResponsables(rows)
}

func (r *ResponsablesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM responsables WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectResponsables(rows *sql.Rows) ([]responsables.Responsable, error) {
	out := make([]responsables.Responsable, 0)
	for rows.Next() {
		var item responsables.Responsable
		if err := rows.Scan(
			&item.ID, &item.Nombre, &item.Telefono, &item.Finca, &item.PlanillaID,
			&item.Zona, &item.NombreZona, &item.LoteVacuna, &item.CreatedBy, &item.Creado,
		); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
