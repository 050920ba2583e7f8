package internal

import "time"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	now    func() time.Time
}

func newApplication() *application {
	return &application{now: time.Now}
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClock overrides the time source used to derive the run date.
// Tests and controlled backfills use it; production runs never need to.
func WithClock(now func() time.Time) Option {
	return func(a *application) {
		if now != nil {
			a.now = now
		}
	}
}
