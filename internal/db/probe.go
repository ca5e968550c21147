package db

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Probe answers "is the store reachable right now". The first successful
// ping also migrates the schema, so a store that comes up after the process
// started is usable without a restart.
type Probe struct {
	DB      *gorm.DB
	Models  []any
	Timeout time.Duration

	mu       sync.Mutex
	migrated bool
	up       *bool
}

// Available pings the store. Inside a context from WithCheckScope the first
// answer is reused for the rest of that scope.
func (p *Probe) Available(ctx context.Context) bool {
	if p == nil || p.DB == nil {
		return false
	}

	if sc, ok := ctx.Value(scopeKey{}).(*scope); ok {
		sc.once.Do(func() { sc.up = p.check(ctx) })
		return sc.up
	}
	return p.check(ctx)
}

func (p *Probe) check(ctx context.Context) bool {
	ok := p.ping(ctx) && p.ensureSchema()
	p.report(ok)
	return ok
}

type scopeKey struct{}

type scope struct {
	once sync.Once
	up   bool
}

// WithCheckScope returns a context in which Available answers at most once.
func WithCheckScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, &scope{})
}

func (p *Probe) ping(ctx context.Context) bool {
	sqlDB, err := p.DB.DB()
	if err != nil {
		log.Printf("store handle error: %v\n", err)
		return false
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return sqlDB.PingContext(ctx) == nil
}

func (p *Probe) ensureSchema() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.migrated {
		return true
	}
	if err := AutoMigrate(p.DB, p.Models...); err != nil {
		log.Printf("store migration failed: %v\n", err)
		return false
	}
	p.migrated = true
	return true
}

// report logs transitions only.
func (p *Probe) report(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.up != nil && *p.up == ok {
		return
	}
	p.up = &ok
	if ok {
		log.Printf("store available\n")
	} else {
		log.Printf("store unavailable, serving degraded mode\n")
	}
}
