package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-service/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// TaskPublisher turns notification and import intents into queued tasks.
// Publishing is fire-and-forget from the caller's point of view: enqueue
// returns as soon as the broker accepts the message.
type TaskPublisher struct {
	emails  *Producer
	imports *Producer
}

// NewTaskPublisher creates a new task publisher over the two task topics.
func NewTaskPublisher(emails, imports *Producer) *TaskPublisher {
	return &TaskPublisher{
		emails:  emails,
		imports: imports,
	}
}

// PublishEmail enqueues one email task.
func (tp *TaskPublisher) PublishEmail(ctx context.Context, subject, body string, recipients []string) error {
	task := models.EmailTask{
		BaseTask:   newBaseTask(models.TaskTypeSendEmail),
		Subject:    subject,
		Body:       body,
		Recipients: recipients,
	}
	return tp.emails.PublishTask(ctx, task.TaskID, task)
}

// PublishImport enqueues one catalog import task and returns its id.
func (tp *TaskPublisher) PublishImport(ctx context.Context, filePath string) (string, error) {
	task := models.ImportTask{
		BaseTask: newBaseTask(models.TaskTypeImportCatalog),
		FilePath: filePath,
	}
	if err := tp.imports.PublishTask(ctx, task.TaskID, task); err != nil {
		return "", err
	}
	return task.TaskID, nil
}

func newBaseTask(taskType string) models.BaseTask {
	return models.BaseTask{
		TaskID:    uuid.New().String(),
		TaskType:  taskType,
		Timestamp: time.Now(),
	}
}

// DecodeEmailTask unmarshals an email task from a queue message.
func DecodeEmailTask(msg kafka.Message) (*models.EmailTask, error) {
	var task models.EmailTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal email task: %w", err)
	}
	if task.TaskType != models.TaskTypeSendEmail {
		return nil, fmt.Errorf("unexpected task type: %s", task.TaskType)
	}
	return &task, nil
}

// DecodeImportTask unmarshals an import task from a queue message.
func DecodeImportTask(msg kafka.Message) (*models.ImportTask, error) {
	var task models.ImportTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal import task: %w", err)
	}
	if task.TaskType != models.TaskTypeImportCatalog {
		return nil, fmt.Errorf("unexpected task type: %s", task.TaskType)
	}
	return &task, nil
}
