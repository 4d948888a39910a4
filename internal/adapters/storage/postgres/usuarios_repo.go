package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vetcontrol/internal/domain/usuarios"
)

type UsuariosRepo struct {
	db *sql.DB
}

func NewUsuariosRepo(db *sql.DB) *UsuariosRepo {
	return &UsuariosRepo{db: db}
}

func (r *UsuariosRepo) Create(ctx context.Context, v usuarios.Veterinario) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO usuarios (
			id, username, nombre, apellido, rol, creado
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		v.ID,
		v.Username,
		v.Nombre,
		v.Apellido,
		string(v.Rol),
		v.Creado,
	)
	return err
}

func (r *UsuariosRepo) GetByID(ctx context.Context, id string) (usuarios.Veterinario, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return usuarios.Veterinario{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, nombre, apellido, rol, creado
		FROM usuarios
		WHERE id = $1
	`, id)
	return scanUsuario(row)
}

func (r *UsuariosRepo) GetByUsername(ctx context.Context, username string) (usuarios.Veterinario, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return usuarios.Veterinario{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, nombre, apellido, rol, creado
		FROM usuarios
		WHERE username = $1
	`, username)
	return scanUsuario(row)
}

func (r *UsuariosRepo) ListByRol(ctx context.Context, rol usuarios.Rol) ([]usuarios.Veterinario, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, nombre, apellido, rol, creado
		FROM usuarios
		WHERE rol = $1
		ORDER BY username ASC
	`, string(rol))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsuarios(rows)
}

func (r *UsuariosRepo) ListAll(ctx context.Context) ([]usuarios.Veterinario, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, nombre, apellido, rol, creado
		FROM usuarios
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsuarios(rows)
}

func scanUsuario(row *sql.Row) (usuarios.Veterinario, error) {
	var v usuarios.Veterinario
	var rol string
	err := row.Scan(&v.ID, &v.Username, &v.Nombre, &v.Apellido, &rol, &v.Creado)
	if errors.Is(err, sql.ErrNoRows) {
		return usuarios.Veterinario{}, ErrNotFound
	}
	if err != nil {
		return usuarios.Veterinario{}, err
	}
	v.Rol = usuarios.Rol(rol)
	return v, nil
}

func collectUsuarios(rows *sql.Rows) ([]usuarios.Veterinario, error) {
	out := make([]usuarios.Veterinario, 0)
	for rows.Next() {
		var v usuarios.Veterinario
		var rol string
		if err := rows.Scan(&v.ID, &v.Username, &v.Nombre, &v.Apellido, &rol, &v.Creado); err != nil {
			return nil, err
		}
		v.Rol = usuarios.Rol(rol)
		out = append(out, v)
	}
	return out, rows.Err()
}
