package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// TombstonePurger hard-deletes soft-deleted rows older than the cutoff.
type TombstonePurger interface {
	PurgeDeleted(cutoff time.Time) (int64, error)
}

// PurgeDeletedTask hard-deletes tombstoned authors, books, pages and reading
// cursors once they are past the retention window. Until then soft-deleted
// rows stay recoverable by hand.
type PurgeDeletedTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for purge tasks.
func (t PurgeDeletedTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_deleted",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeDeletedProcessor creates a processor function for PurgeDeletedTask.
// The purgers run in dependency order so a purged book never leaves pages or
// cursors behind for a later run.
func PurgeDeletedProcessor(purgers map[string]TombstonePurger) backlite.QueueProcessor[PurgeDeletedTask] {
	// books covers book_details rows in the same transaction
	order := []string{"user_books", "books", "authors"}

	return func(ctx context.Context, task PurgeDeletedTask) error {
		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		var total int64
		for _, name := range order {
			purger, ok := purgers[name]
			if !ok {
				continue
			}
			deleted, err := purger.PurgeDeleted(cutoff)
			if err != nil {
				return fmt.Errorf("purge %s: %w", name, err)
			}
			total += deleted
		}

		log.Printf("[TASK] Purged %d soft-deleted rows older than %d days", total, retentionDays)
		return nil
	}
}

// NewPurgeDeletedQueue creates a backlite queue for purge tasks.
func NewPurgeDeletedQueue(purgers map[string]TombstonePurger) backlite.Queue {
	return backlite.NewQueue(PurgeDeletedProcessor(purgers))
}
