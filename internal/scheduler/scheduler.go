package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/station-data-api/internal/observation"
)

// Scheduler periodically reports the size of the observation store. The store
// is append-only, so the count doubles as a cheap growth signal in the logs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     observation.Store
	interval  time.Duration
}

// New creates a new Scheduler.
func New(store observation.Store, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		store:     store,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		count, err := s.store.Count(ctx)
		if err != nil {
			log.Printf("scheduler: store count failed: %v", err)
			return
		}
		log.Printf("scheduler: %d observation records persisted", count)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
