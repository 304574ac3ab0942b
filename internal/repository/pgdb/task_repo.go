package pgdb

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/internal/repository/pgdb/converter"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/tr"
)

// TaskRepo реализует устойчивую очередь задач поверх PostgreSQL.
// Постановка задачи сопровождается NOTIFY, захват использует
// FOR UPDATE SKIP LOCKED, что допускает несколько воркеров.
type TaskRepo struct {
	pool *pgxpool.Pool
	conv converter.TaskConverter
}

func NewTaskRepo(pool *pgxpool.Pool, conv converter.TaskConverter) *TaskRepo {
	return &TaskRepo{
		pool: pool,
		conv: conv,
	}
}

// Enqueue ставит задачу и будит воркеров через NOTIFY.
func (r *TaskRepo) Enqueue(ctx context.Context, task *domain.SyncTask) error {
	query := `
		WITH ins AS (
			INSERT INTO sync_tasks (task_type, payload, max_attempts, run_after)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		)
		SELECT pg_notify('sync_tasks_pending', id::text) FROM ins
	`

	_, err := tr.Executor(ctx, r.pool).Exec(ctx, query,
		string(task.Type), task.Payload, task.MaxAttempts, task.RunAfter,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// ClaimBatch захватывает порцию готовых к выполнению задач,
// увеличивая счётчик попыток при захвате.
func (r *TaskRepo) ClaimBatch(ctx context.Context, limit int) ([]domain.SyncTask, error) {
	query := `
		UPDATE sync_tasks
		SET status = 'processing', attempts = attempts + 1, updated_at = NOW()
		WHERE id IN (
			SELECT id
			FROM sync_tasks
			WHERE status = 'pending' AND run_after <= NOW()
			ORDER BY id
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, task_type, payload, status, attempts, max_attempts,
			run_after, last_error, created_at, updated_at
	`

	rows, err := tr.Executor(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.SyncTask, 0, limit)
	for rows.Next() {
		var model converter.SyncTaskModel
		if err := rows.Scan(
			&model.ID, &model.TaskType, &model.Payload, &model.Status,
			&model.Attempts, &model.MaxAttempts, &model.RunAfter,
			&model.LastError, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *r.conv.ToEntity(&model))
	}

	return result, nil
}

func (r *TaskRepo) MarkDone(ctx context.Context, id int64) error {
	query := `UPDATE sync_tasks SET status = 'done', updated_at = NOW() WHERE id = $1`

	if _, err := tr.Executor(ctx, r.pool).Exec(ctx, query, id); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Reschedule возвращает задачу в очередь с отложенным запуском.
func (r *TaskRepo) Reschedule(ctx context.Context, id int64, runAfter time.Time, lastError string) error {
	query := `
		UPDATE sync_tasks
		SET status = 'pending', run_after = $2, last_error = $3, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tr.Executor(ctx, r.pool).Exec(ctx, query, id, runAfter, lastError); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *TaskRepo) MarkFailed(ctx context.Context, id int64, lastError string) error {
	query := `
		UPDATE sync_tasks
		SET status = 'failed', last_error = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tr.Executor(ctx, r.pool).Exec(ctx, query, id, lastError); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
