package ingest

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/saatdakika/backend/internal/logger"
)

const cycleTimeout = 5 * time.Minute

// Poller runs ingestion cycles on a fixed interval until stopped.
type Poller struct {
	ing      *Ingestor
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewPoller(ing *Ingestor, interval time.Duration) *Poller {
	return &Poller{
		ing:      ing,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the polling loop. The first cycle runs immediately.
func (p *Poller) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
			added := p.ing.RunCycle(ctx)
			cancel()

			logger.Log.Info("Poller cycle complete",
				zap.Int("new_articles", added),
				zap.Duration("next_in", p.interval))

			select {
			case <-p.stopChan:
				return
			case <-time.After(p.interval):
			}
		}
	}()
}

// Stop halts the poller and waits for an in-flight cycle to finish.
func (p *Poller) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}
