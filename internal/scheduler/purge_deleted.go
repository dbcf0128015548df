// Package scheduler triggers the periodic maintenance work. The cron entries
// only enqueue tasks; the actual work runs on the task queue workers.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mcharkviani/library/internal/config"
	"github.com/mcharkviani/library/internal/tasks"
)

// PurgeScheduler periodically enqueues the tombstone purge task.
type PurgeScheduler struct {
	taskClient *tasks.Client
	cfg        config.Cleanup

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewPurgeScheduler creates a new scheduler instance.
func NewPurgeScheduler(taskClient *tasks.Client, cfg config.Cleanup) *PurgeScheduler {
	return &PurgeScheduler{
		taskClient: taskClient,
		cfg:        cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if cleanup is enabled.
func (s *PurgeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Purge scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.enqueuePurge()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule purge job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Purge scheduler: started with schedule '%s', retention %d days",
		s.cfg.Schedule, s.cfg.RetentionDays)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running enqueue to
// finish.
func (s *PurgeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Purge scheduler: stopped")
}

// RunNow enqueues an immediate purge.
func (s *PurgeScheduler) RunNow() {
	go s.enqueuePurge()
}

// IsRunning returns whether the scheduler is active.
func (s *PurgeScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next purge will be enqueued.
func (s *PurgeScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *PurgeScheduler) enqueuePurge() {
	if s.taskClient == nil {
		log.Printf("Purge scheduler: skipped (task queue not configured)")
		return
	}

	_, err := s.taskClient.Add(tasks.PurgeDeletedTask{
		RetentionDays: s.cfg.RetentionDays,
	}).Save()
	if err != nil {
		log.Printf("Purge scheduler: failed to enqueue purge task: %v", err)
		return
	}
	log.Printf("Purge scheduler: enqueued purge task")
}
