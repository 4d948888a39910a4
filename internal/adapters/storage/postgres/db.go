package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen. Suficiente para despliegues
// chicos de secretarías; migraciones versionadas quedan para más adelante.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id        TEXT PRIMARY KEY,
			username  TEXT NOT NULL UNIQUE,
			nombre    TEXT NOT NULL DEFAULT '',
			apellido  TEXT NOT NULL DEFAULT '',
			rol       TEXT NOT NULL,
			creado    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS planillas (
			id                            TEXT PRIMARY KEY,
			nombre                        TEXT NOT NULL,
			municipio                     TEXT NOT NULL,
			urbano_rural                  TEXT NOT NULL,
			centro_poblado_vereda_barrio  TEXT NOT NULL,
			zona                          TEXT NOT NULL,
			vacunador_id                  TEXT NOT NULL,
			tecnico_id                    TEXT NOT NULL DEFAULT '',
			vacunadores_adicionales       TEXT[] NOT NULL DEFAULT '{}',
			tecnicos_adicionales          TEXT[] NOT NULL DEFAULT '{}',
			creada                        TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS responsables (
			id           TEXT PRIMARY KEY,
			nombre       TEXT NOT NULL,
			telefono     TEXT NOT NULL DEFAULT '',
			finca        TEXT NOT NULL DEFAULT '',
			planilla_id  TEXT NOT NULL,
			zona         TEXT NOT NULL,
			nombre_zona  TEXT NOT NULL,
			lote_vacuna  TEXT NOT NULL,
			created_by   TEXT NOT NULL DEFAULT '',
			creado       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_responsables_planilla ON responsables (planilla_id)`,
		`CREATE TABLE IF NOT EXISTS mascotas (
			id                   TEXT PRIMARY KEY,
			nombre               TEXT NOT NULL,
			tipo                 TEXT NOT NULL,
			raza                 TEXT NOT NULL DEFAULT '',
			color                TEXT NOT NULL DEFAULT '',
			antecedente_vacunal  BOOLEAN NOT NULL DEFAULT FALSE,
			esterilizado         BOOLEAN NOT NULL DEFAULT FALSE,
			responsable_id       TEXT NOT NULL DEFAULT '',
			latitud              DOUBLE PRECISION,
			longitud             DOUBLE PRECISION,
			foto_path            TEXT NOT NULL DEFAULT '',
			created_by           TEXT NOT NULL DEFAULT '',
			creado               TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mascotas_responsable ON mascotas (responsable_id)`,
		`CREATE TABLE IF NOT EXISTS perdidas (
			id              TEXT PRIMARY KEY,
			registrado_por  TEXT NOT NULL,
			cantidad        INTEGER NOT NULL,
			lote_vacuna     TEXT NOT NULL,
			motivo          TEXT NOT NULL DEFAULT '',
			foto_path       TEXT NOT NULL DEFAULT '',
			latitud         DOUBLE PRECISION,
			longitud        DOUBLE PRECISION,
			fecha_registro  TIMESTAMPTZ NOT NULL,
			fecha_perdida   TIMESTAMPTZ NOT NULL,
			sincronizado    BOOLEAN NOT NULL DEFAULT TRUE,
			uuid_local      TEXT NOT NULL UNIQUE
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
