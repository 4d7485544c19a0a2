package rate_limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Pool hands out one token-bucket limiter per client key (usually the remote
// IP). Separate pools carry separate budgets, so the OTP endpoints can be
// throttled harder than catalog browsing.
type Pool struct {
	mu      sync.Mutex
	rate    rate.Limit
	burst   int
	clients map[string]*clientLimiter
}

func NewPool(r rate.Limit, burst int) *Pool {
	return &Pool{
		rate:    r,
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
}

func (p *Pool) Get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, exists := p.clients[key]
	if !exists {
		limiter := rate.NewLimiter(p.rate, p.burst)
		p.clients[key] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	c.lastSeen = time.Now()
	return c.limiter
}

// StartCleanupLoop drops limiters for clients idle longer than five minutes.
func (p *Pool) StartCleanupLoop() {
	for {
		time.Sleep(time.Minute)
		p.mu.Lock()
		for key, c := range p.clients {
			if time.Since(c.lastSeen) > 5*time.Minute {
				delete(p.clients, key)
			}
		}
		p.mu.Unlock()
	}
}

func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clients = make(map[string]*clientLimiter)
}
