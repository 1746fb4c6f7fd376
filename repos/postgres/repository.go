package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecociel/tasks/domain"
)

// Repo persists tasks in Postgres. Timestamps are assigned here, not by
// schema defaults, so the policy stays visible and testable.
type Repo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

const schema = `
    CREATE TABLE IF NOT EXISTS tasks (
        id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
        titulo            VARCHAR(200) NOT NULL,
        descricao         TEXT,
        status            VARCHAR(20) NOT NULL,
        data_criacao      TIMESTAMPTZ NOT NULL,
        data_atualizacao  TIMESTAMPTZ NOT NULL
    )`

// EnsureSchema creates the tasks table when it does not exist yet.
func (repo *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := repo.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (repo *Repo) Insert(ctx context.Context, in domain.NewTask) (domain.Task, error) {
	const q = `
        INSERT INTO tasks
          (titulo, descricao, status, data_criacao, data_atualizacao)
        VALUES
          ($1, $2, $3, $4, $4)
        RETURNING id
        `
	now := repo.now()
	task := domain.Task{
		Titulo:          in.Titulo,
		Descricao:       in.Descricao,
		Status:          domain.StatusPending,
		DataCriacao:     now,
		DataAtualizacao: now,
	}
	err := repo.pool.QueryRow(ctx, q, task.Titulo, task.Descricao, task.Status, now).Scan(&task.ID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (repo *Repo) GetByID(ctx context.Context, id int64) (domain.Task, error) {
	const q = `
    SELECT id, titulo, descricao, status, data_criacao, data_atualizacao
    FROM tasks
    WHERE id = $1
     `
	var task domain.Task
	err := repo.pool.QueryRow(ctx, q, id).Scan(
		&task.ID, &task.Titulo, &task.Descricao, &task.Status, &task.DataCriacao, &task.DataAtualizacao)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

func (repo *Repo) List(ctx context.Context, skip, limit int) ([]domain.Task, error) {
	const q = `
    SELECT id, titulo, descricao, status, data_criacao, data_atualizacao
    FROM tasks
    ORDER BY id
    OFFSET $1 LIMIT $2
     `
	rows, err := repo.pool.Query(ctx, q, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (repo *Repo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error) {
	const q = `
    SELECT id, titulo, descricao, status, data_criacao, data_atualizacao
    FROM tasks
    WHERE status = $1
    ORDER BY id
     `
	rows, err := repo.pool.Query(ctx, q, status)
	if err != nil {
		return nil, fmt.Errorf("query tasks by status: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// Update applies patch to the task with the given id. Nil patch fields are
// left as they are, ClearDescricao nulls the description, and
// data_atualizacao is refreshed on every successful update, changed values
// or not.
func (repo *Repo) Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	const q = `
        UPDATE tasks SET
          titulo = COALESCE($2, titulo),
          descricao = CASE WHEN $6 THEN NULL ELSE COALESCE($3, descricao) END,
          status = COALESCE($4, status),
          data_atualizacao = $5
        WHERE id = $1
        RETURNING id, titulo, descricao, status, data_criacao, data_atualizacao
        `
	var task domain.Task
	err := repo.pool.QueryRow(ctx, q, id, patch.Titulo, patch.Descricao, patch.Status, repo.now(), patch.ClearDescricao).Scan(
		&task.ID, &task.Titulo, &task.Descricao, &task.Status, &task.DataCriacao, &task.DataAtualizacao)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return task, nil
}

// Delete removes the task and reports whether a row was actually deleted.
func (repo *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `
      DELETE FROM tasks WHERE id = $1`
	tag, err := repo.pool.Exec(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Ping backs the database health check.
func (repo *Repo) Ping(ctx context.Context) error {
	return repo.pool.Ping(ctx)
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.Titulo, &task.Descricao, &task.Status, &task.DataCriacao, &task.DataAtualizacao); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows tasks: %w", err)
	}
	return tasks, nil
}
