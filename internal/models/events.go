package models

import "time"

// Task types
const (
	TaskTypeSendEmail     = "SEND_EMAIL"
	TaskTypeImportCatalog = "IMPORT_CATALOG"
)

// Import task statuses reported to API callers.
const (
	ImportTaskQueued = "queued"
)

// BaseTask contains common fields for all queued tasks.
type BaseTask struct {
	TaskID    string    `json:"task_id"`
	TaskType  string    `json:"task_type"`
	Timestamp time.Time `json:"timestamp"`
}

// EmailTask is a fire-and-forget request to send one email. Delivery is
// at-least-once and best-effort; a failed send is never surfaced to the
// user who triggered it.
type EmailTask struct {
	BaseTask
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients"`
}

// ImportTask asks a worker to run the catalog import for a server-local
// YAML file.
type ImportTask struct {
	BaseTask
	FilePath string `json:"file_path"`
}
