package services

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// DeferredScheduler runs a task once after a delay. Tasks are grouped by key
// so that everything pending for an entity can be cancelled together.
type DeferredScheduler interface {
	ScheduleOnce(key string, delay time.Duration, task func()) error
	Cancel(key string)
}

type GocronScheduler struct {
	sched gocron.Scheduler
}

// NewGocronScheduler creates and starts a gocron scheduler.
func NewGocronScheduler() (*GocronScheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	sched.Start()
	return &GocronScheduler{sched: sched}, nil
}

func (g *GocronScheduler) ScheduleOnce(key string, delay time.Duration, task func()) error {
	start := gocron.OneTimeJobStartImmediately()
	if delay > 0 {
		start = gocron.OneTimeJobStartDateTime(time.Now().Add(delay))
	}

	j, err := g.sched.NewJob(
		gocron.OneTimeJob(start),
		gocron.NewTask(task),
		gocron.WithName(key),
		gocron.WithTags(key),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", key, err)
	}
	log.Printf("⏱️  job %s scheduled for %s in %s", j.ID().String(), key, delay)
	return nil
}

func (g *GocronScheduler) Cancel(key string) {
	g.sched.RemoveByTags(key)
}

func (g *GocronScheduler) Shutdown() error {
	return g.sched.Shutdown()
}
