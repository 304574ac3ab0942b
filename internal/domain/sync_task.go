package domain

import "time"

// TaskType определяет вид фоновой задачи.
type TaskType string

const (
	TaskProductSync TaskType = "product_sync"
	TaskImageUpload TaskType = "image_upload"
)

// TaskStatus — состояние задачи в очереди.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskDone       TaskStatus = "done"
	TaskFailed     TaskStatus = "failed"
)

// SyncTask — устойчивая фоновая задача. Полезная нагрузка хранится как JSON,
// конкретный обработчик выбирается по типу задачи.
type SyncTask struct {
	ID          int64
	Type        TaskType
	Payload     []byte
	Status      TaskStatus
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewSyncTask(taskType TaskType, payload []byte, maxAttempts int) *SyncTask {
	return &SyncTask{
		Type:        taskType,
		Payload:     payload,
		Status:      TaskPending,
		MaxAttempts: maxAttempts,
		RunAfter:    time.Now(),
	}
}
