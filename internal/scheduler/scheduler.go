package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jobpilot-dev/jobpilot/db"
	"github.com/jobpilot-dev/jobpilot/internal/models"
)

const pruneInterval = time.Hour

// TokenPruner periodically deletes refresh tokens that have expired or been
// invalidated, so logged-out and stale sessions do not accumulate.
type TokenPruner struct {
	interval time.Duration
	ticker   *time.Ticker
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
}

func NewTokenPruner() *TokenPruner {
	ctx, cancel := context.WithCancel(context.Background())
	return &TokenPruner{
		interval: pruneInterval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs an immediate prune and then prunes on every tick.
func (p *TokenPruner) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	p.running = true
	p.ticker = time.NewTicker(p.interval)

	go func() {
		p.prune()
		for {
			select {
			case <-p.ctx.Done():
				return
			case <-p.ticker.C:
				p.prune()
			}
		}
	}()

	log.Printf("Token pruner started with interval %s", p.interval)
}

func (p *TokenPruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.cancel()
	p.ticker.Stop()
	p.running = false
	log.Println("Token pruner stopped")
}

func (p *TokenPruner) prune() {
	result := db.DB.
		Where("expires_at < ? OR is_valid = ?", time.Now(), false).
		Delete(&models.RefreshToken{})

	if result.Error != nil {
		log.Printf("Failed to prune refresh tokens: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Pruned %d refresh tokens", result.RowsAffected)
	}
}
