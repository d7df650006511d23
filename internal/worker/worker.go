package worker

import (
	"context"
	"log"

	"marketplace-service/internal/broker"
	"marketplace-service/internal/mailer"
	"marketplace-service/internal/service"
	"marketplace-service/internal/util"

	"github.com/segmentio/kafka-go"
)

// MailWorker drains the email task topic through the SMTP mailer.
// Delivery is best-effort: a failed send is logged and the task is
// committed anyway.
type MailWorker struct {
	consumer *broker.Consumer
	mailer   *mailer.Mailer
}

// NewMailWorker creates a new mail worker.
func NewMailWorker(consumer *broker.Consumer, mailer *mailer.Mailer) *MailWorker {
	return &MailWorker{
		consumer: consumer,
		mailer:   mailer,
	}
}

// Start starts the mail worker
func (w *MailWorker) Start(ctx context.Context) error {
	log.Println("Starting mail worker...")

	return w.consumer.StartConsuming(ctx, func(ctx context.Context, msg kafka.Message) error {
		task, err := broker.DecodeEmailTask(msg)
		if err != nil {
			log.Printf("Failed to decode email task: %v", err)
			return err
		}

		log.Printf("Sending email %s to %d recipient(s)", task.TaskID, len(task.Recipients))

		if err := w.mailer.Send(task.Subject, task.Body, task.Recipients); err != nil {
			util.EmailsSentTotal.WithLabelValues("failed").Inc()
			log.Printf("Failed to send email %s: %v", task.TaskID, err)
			return err
		}

		util.EmailsSentTotal.WithLabelValues("ok").Inc()
		return nil
	})
}

// Stop stops the mail worker
func (w *MailWorker) Stop() error {
	log.Println("Stopping mail worker...")
	return w.consumer.Close()
}

// ImportWorker drains the catalog import task topic through the catalog
// service. Import atomicity lives in the service: a failed import leaves
// the previous catalog in place and the task is committed.
type ImportWorker struct {
	consumer *broker.Consumer
	catalog  *service.CatalogService
}

// NewImportWorker creates a new import worker.
func NewImportWorker(consumer *broker.Consumer, catalog *service.CatalogService) *ImportWorker {
	return &ImportWorker{
		consumer: consumer,
		catalog:  catalog,
	}
}

// Start starts the import worker
func (w *ImportWorker) Start(ctx context.Context) error {
	log.Println("Starting import worker...")

	return w.consumer.StartConsuming(ctx, func(ctx context.Context, msg kafka.Message) error {
		task, err := broker.DecodeImportTask(msg)
		if err != nil {
			log.Printf("Failed to decode import task: %v", err)
			return err
		}

		log.Printf("Processing catalog import %s: %s", task.TaskID, task.FilePath)

		shop, err := w.catalog.ImportFile(ctx, w.catalog.ImportPath(task.FilePath))
		if err != nil {
			log.Printf("Catalog import %s failed: %v", task.TaskID, err)
			return err
		}

		log.Printf("Catalog import %s done for shop %q", task.TaskID, shop.Name)
		return nil
	})
}

// Stop stops the import worker
func (w *ImportWorker) Stop() error {
	log.Println("Stopping import worker...")
	return w.consumer.Close()
}
