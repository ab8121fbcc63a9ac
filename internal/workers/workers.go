package workers

import (
	"time"

	"github.com/rs/zerolog/log"

	"cardsynch/internal/platform/repositories"
)

// PlanExpiry downgrades users whose paid plan has lapsed. Billing webhooks
// handle the common case; this sweep catches deliveries that never arrived.
type PlanExpiry struct {
	users *repositories.UserRepository
}

func NewPlanExpiry(users *repositories.UserRepository) *PlanExpiry {
	return &PlanExpiry{users: users}
}

func (w *PlanExpiry) RunOnce() error {
	downgraded, err := w.users.DowngradeExpired(time.Now().UnixMilli())
	if err != nil {
		return err
	}
	if downgraded > 0 {
		log.Info().Int64("count", downgraded).Msg("Downgraded users with expired plans")
	}
	return nil
}

// Run sweeps on the given interval until stop is closed.
func (w *PlanExpiry) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.RunOnce(); err != nil {
				log.Error().Err(err).Msg("Plan expiry sweep failed")
			}
		case <-stop:
			return
		}
	}
}
