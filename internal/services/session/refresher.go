// Package session runs background maintenance that keeps the active
// account's server session alive while the app is open.
package session

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/woowtech/odoogate/internal/services/account"
)

// Refresher periodically re-validates the active account's session so the
// embedded browser's cookie does not silently lapse between interactions.
type Refresher struct {
	accounts *account.Service
	cron     *cron.Cron
	logger   arbor.ILogger
}

// NewRefresher creates a new session refresher
func NewRefresher(accounts *account.Service, logger arbor.ILogger) *Refresher {
	return &Refresher{
		accounts: accounts,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Start begins the scheduled refresh
func (r *Refresher) Start(schedule string) error {
	if schedule == "" {
		// Default: every 10 minutes
		schedule = "0 */10 * * * *"
	}

	_, err := r.cron.AddFunc(schedule, func() {
		r.runRefresh()
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info().
		Str("schedule", schedule).
		Msg("Session refresher started")

	return nil
}

// Stop stops the refresher
func (r *Refresher) Stop() {
	r.cron.Stop()
	r.logger.Info().Msg("Session refresher stopped")
}

func (r *Refresher) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if !r.accounts.RefreshSession(ctx) {
		// No active account, no stored credential, or re-auth failed; the
		// next interactive operation reports the specific failure.
		r.logger.Debug().Msg("Session refresh skipped or failed")
		return
	}

	r.logger.Debug().Msg("Session refresh completed")
}
