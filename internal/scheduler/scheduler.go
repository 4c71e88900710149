package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/airport-weather-alerts/internal/alert"
)

// Scheduler periodically triggers a scheduled alert run.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *alert.Service
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. timeout bounds each run; a stuck run ends
// when its providers' own timeouts and retries have elapsed.
func New(service *alert.Service, interval, timeout time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic run (firing once immediately) and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		log.Println("scheduler: running weather check job")

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.service.Run(ctx, alert.ModeScheduled); err != nil {
			log.Printf("scheduler: run failed: %v", err)
		}

		log.Println("scheduler: completed weather check job")
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
