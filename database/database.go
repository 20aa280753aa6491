package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"site-task-manager/utilities"
)

// ConnectPostgres abre e testa a conexão com o PostgreSQL.
func ConnectPostgres(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		utilities.LogError(err, "Erro ao abrir conexão com o banco de dados")
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		utilities.LogError(err, "Erro ao conectar ao banco de dados")
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	utilities.LogInfo("Conectado ao PostgreSQL com sucesso!")
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                 TEXT PRIMARY KEY,
	title              TEXT NOT NULL,
	description        TEXT,
	assigned_to        TEXT,
	due_date           TEXT,
	status             TEXT NOT NULL DEFAULT 'pending',
	category           TEXT NOT NULL,
	priority           TEXT NOT NULL,
	extracted_entities JSONB NOT NULL DEFAULT '{"dates": [], "locations": []}'::jsonb,
	suggested_actions  TEXT[] NOT NULL DEFAULT '{}',
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS tasks_created_at_idx ON tasks (created_at DESC);

CREATE TABLE IF NOT EXISTS task_history (
	id         TEXT PRIMARY KEY,
	task_id    TEXT NOT NULL,
	action     TEXT NOT NULL,
	old_value  JSONB,
	new_value  JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS task_history_task_id_idx ON task_history (task_id, created_at);
`

// EnsureSchema creates the tables used by PostgresStore and PostgresHistory.
// task_history has no foreign key: entries survive the deletion of their task.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
