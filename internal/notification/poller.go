package notification

import (
	"context"
	"log"
	"time"

	"surfboard-checkout-backend/internal/service"
)

// Poller is the backstop behind the in-line promotion on return: it wakes
// periodically, promotes queue heads whose unlock time elapsed while their
// board sat available, and queues delivery for promoted reservations that
// were never notified.
type Poller struct {
	reservations *service.ReservationService
	pool         *WorkerPool
	interval     time.Duration
}

func NewPoller(rs *service.ReservationService, pool *WorkerPool, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{reservations: rs, pool: pool, interval: interval}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.tick(ctx)
		case <-ctx.Done():
			log.Printf("notification poller stopped")
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	promoted, err := p.reservations.PromoteUnlocked(ctx)
	if err != nil {
		log.Printf("poller: promote unlocked reservations: %v", err)
	}
	for _, id := range promoted {
		p.pool.Dispatch(Job{Kind: KindReservationAvailable, ID: id})
	}

	due, err := p.reservations.PendingNotifications(ctx)
	if err != nil {
		log.Printf("poller: list pending notifications: %v", err)
		return
	}
	for _, res := range due {
		p.pool.Dispatch(Job{Kind: KindReservationAvailable, ID: res.ID})
	}
}
