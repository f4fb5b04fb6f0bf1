package queue

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Sweeper periodically releases abandoned queue locks.
type Sweeper struct {
	queue *Queue
	ttl   time.Duration
	cron  *cron.Cron
}

func NewSweeper(q *Queue, ttl time.Duration) *Sweeper {
	return &Sweeper{
		queue: q,
		ttl:   ttl,
		cron:  cron.New(),
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Infof("Queue sweeper started (lock TTL %s)", s.ttl)
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	released, err := s.queue.ReleaseStale(ctx, s.ttl)
	if err != nil {
		log.Errorf("Queue sweep failed: %v", err)
		return
	}
	if released > 0 {
		log.Infof("Released %d stale queue locks", released)
	}
}
