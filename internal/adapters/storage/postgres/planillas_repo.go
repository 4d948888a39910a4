package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vetcontrol/internal/domain/planillas"
)

type PlanillasRepo struct {
	db *sql.DB
}

func NewPlanillasRepo(db *sql.DB) *PlanillasRepo {
	return &PlanillasRepo{db: db}
}

func (r *PlanillasRepo) Create(ctx context.Context, p planillas.Planilla) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO planillas (
			id, nombre, municipio, urbano_rural, centro_poblado_vereda_barrio, zona,
			vacunador_id, tecnico_id, vacunadores_adicionales, tecnicos_adicionales,
			creada
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID,
		p.Nombre,
		p.Municipio,
		string(p.UrbanoRural),
		p.CentroPobladoVeredaBarrio,
		p.Zona,
		p.VacunadorID,
		p.TecnicoID,
		idsToTextArray(p.VacunadoresAdicionales),
		idsToTextArray(p.TecnicosAdicionales),
		p.Creada,
	)
	return err
}

func (r *PlanillasRepo) GetByID(ctx context.Context, id string) (planillas.Planilla, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return planillas.Planilla{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, nombre, municipio, urbano_rural, centro_poblado_vereda_barrio, zona,
			vacunador_id, tecnico_id, vacunadores_adicionales, tecnicos_adicionales,
			creada
		FROM planillas
		WHERE id = $1
	`, id)

	var p planillas.Planilla
	var ur string
	var vacAdic, tecAdic []string
	err := row.Scan(
		&p.ID, &p.Nombre, &p.Municipio, &ur, &p.CentroPobladoVeredaBarrio, &p.Zona,
		&p.VacunadorID, &p.TecnicoID, &vacAdic, &tecAdic,
		&p.Creada,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return planillas.Planilla{}, ErrNotFound
	}
	if err != nil {
		return planillas.Planilla{}, err
	}
	p.UrbanoRural = planillas.TipoZona(ur)
	p.VacunadoresAdicionales = vacAdic
	p.TecnicosAdicionales = tecAdic
	return p, nil
}

func (r *PlanillasRepo) ListAll(ctx context.Context) ([]planillas.Planilla, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, nombre, municipio, urbano_rural, centro_poblado_vereda_barrio, zona,
			vacunador_id, tecnico_id, vacunadores_adicionales, tecnicos_adicionales,
			creada
		FROM planillas
		ORDER BY creada ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]planillas.Planilla, 0)
	for rows.Next() {
		var p planillas.Planilla
		var ur string
		var vacAdic, tecAdic []string
		if err := rows.Scan(
			&p.ID, &p.Nombre, &p.Municipio, &ur, &p.CentroPobladoVeredaBarrio, &p.Zona,
			&p.VacunadorID, &p.TecnicoID, &vacAdic, &tecAdic,
			&p.Creada,
		); err != nil {
			return nil, err
		}
		p.UrbanoRural = planillas.TipoZona(ur)
		p.VacunadoresAdicionales = vacAdic
		p.TecnicosAdicionales = tecAdic
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PlanillasRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM planillas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func idsToTextArray(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	return in
}
