package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/jitter"
	"github.com/storeforge/backend/pkg/logger"
)

const notifyChannel = "sync_tasks_pending"

// Handler обрабатывает полезную нагрузку одной задачи.
type Handler func(ctx context.Context, payload []byte) error

// Worker вычитывает устойчивую очередь задач: разбор «остатков» при старте,
// периодический опрос для задач с отложенным запуском и LISTEN/NOTIFY
// для мгновенной реакции на новые задачи.
type Worker struct {
	taskRepo  usecase.TaskRepository
	handlers  map[domain.TaskType]Handler
	workerCfg *cfg.WorkerCfg
	logger    logger.Logger
	stop      chan struct{}
	wg        sync.WaitGroup
	dbConnStr string
}

func NewWorker(
	taskRepo usecase.TaskRepository,
	workerCfg *cfg.WorkerCfg,
	logger logger.Logger,
	dbConnStr string,
) *Worker {
	return &Worker{
		taskRepo:  taskRepo,
		handlers:  make(map[domain.TaskType]Handler),
		workerCfg: workerCfg,
		logger:    logger,
		stop:      make(chan struct{}),
		dbConnStr: dbConnStr,
	}
}

// Register привязывает обработчик к типу задачи. Вызывается до Start.
func (w *Worker) Register(taskType domain.TaskType, handler Handler) {
	w.handlers[taskType] = handler
}

func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	// Слушатель уведомлений о новых задачах
	go func() {
		defer w.wg.Done()
		w.listenNotifications(ctx)
	}()
}

func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	w.logger.Infof("Draining pending tasks on startup...")
	w.drain(ctx)

	ticker := time.NewTicker(w.workerCfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Worker stopped by context cancellation")
			return
		case <-w.stop:
			return
		case <-ticker.C:
			// Опрос подбирает задачи с наступившим run_after
			w.drain(ctx)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *Worker) listenNotifications(ctx context.Context) {
	var conn *pgx.Conn
	var err error

	connect := func() error {
		conn, err = pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		_, err = conn.Exec(ctx, "LISTEN "+notifyChannel)
		if err != nil {
			conn.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		w.logger.Infof("Subscribed to '%s' channel", notifyChannel)
		return nil
	}

	if err := connect(); err != nil {
		w.logger.Warnf("Initial connect failed: %v", err)
		return
	}
	defer conn.Close(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
			ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
			notif, err := conn.WaitForNotification(ctxWithTimeout)
			cancel()

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					continue
				}
				w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
				conn.Close(ctx)

				time.Sleep(2 * time.Second)
				if err := connect(); err != nil {
					w.logger.Warnf("Reconnect failed: %v", err)
					time.Sleep(5 * time.Second)
				}
				continue
			}

			if notif != nil && notif.Channel == notifyChannel {
				w.logger.Debugf("Received task notification, draining queue")
				w.drain(ctx)
			}
		}
	}
}

func (w *Worker) processBatch(ctx context.Context) (bool, error) {
	tasks, err := w.taskRepo.ClaimBatch(ctx, w.workerCfg.ClaimBatchSize)
	if err != nil {
		return false, err
	}

	if len(tasks) == 0 {
		return false, nil
	}

	for i := range tasks {
		w.processTask(ctx, &tasks[i])
	}

	return true, nil
}

func (w *Worker) processTask(ctx context.Context, task *domain.SyncTask) {
	handler, ok := w.handlers[task.Type]
	if !ok {
		w.logger.Errorf(fmt.Errorf("no handler registered"), "unknown task type. id: %d, type: %s", task.ID, task.Type)
		if err := w.taskRepo.MarkFailed(ctx, task.ID, "no handler registered for "+string(task.Type)); err != nil {
			w.logger.Warnf("mark failed error: %v", err)
		}
		return
	}

	if err := handler(ctx, task.Payload); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.taskRepo.MarkDone(ctx, task.ID); err != nil {
		w.logger.Warnf("mark done failed. id: %d, error: %v", task.ID, err)
	}
}

// retryOrFail перекладывает задачу на повтор либо хоронит её
// по исчерпании попыток. Счётчик попыток увеличивается при захвате.
func (w *Worker) retryOrFail(ctx context.Context, task *domain.SyncTask, taskErr error) {
	if task.Attempts >= task.MaxAttempts {
		w.logger.Warnf("task exhausted attempts. id: %d, type: %s, error: %v", task.ID, task.Type, taskErr)
		if err := w.taskRepo.MarkFailed(ctx, task.ID, taskErr.Error()); err != nil {
			w.logger.Warnf("mark failed error: %v", err)
		}
		return
	}

	runAfter := time.Now().Add(w.retryDelay(task))
	w.logger.Warnf("task failed, rescheduling. id: %d, type: %s, attempt: %d/%d, run_after: %s, error: %v",
		task.ID, task.Type, task.Attempts, task.MaxAttempts, runAfter.Format(time.RFC3339), taskErr)

	if err := w.taskRepo.Reschedule(ctx, task.ID, runAfter, taskErr.Error()); err != nil {
		w.logger.Warnf("reschedule failed: %v", err)
	}
}

// retryDelay: изображения повторяются с фиксированной паузой,
// остальные типы — с экспоненциальным отступлением и джиттером.
func (w *Worker) retryDelay(task *domain.SyncTask) time.Duration {
	const (
		baseBackoff = 5 * time.Second
		maxBackoff  = 5 * time.Minute
	)

	if task.Type == domain.TaskImageUpload {
		return w.workerCfg.ImageBackoff
	}

	return jitter.ExponentialBackoff(baseBackoff, maxBackoff, task.Attempts, jitter.DefaultJitter)
}
