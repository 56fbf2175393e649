package config

import "time"

const (
	defaultRefreshInterval = 3 * time.Second
	minRefreshInterval     = 500 * time.Millisecond
)

// ListConfig controls list screen behaviour.
type ListConfig struct {
	// RefreshInterval is the auto-refresh period of refreshing screens.
	RefreshInterval time.Duration `env:"LIST_REFRESH_INTERVAL" envDefault:"3s"`

	// AdvancedView starts every screen with the advanced view on.
	AdvancedView bool `env:"LIST_ADVANCED_VIEW" envDefault:"false"`
}

// Sanitize applies guardrails to list configuration values.
func (l *ListConfig) Sanitize() {
	if l.RefreshInterval <= 0 {
		l.RefreshInterval = defaultRefreshInterval
	}
	if l.RefreshInterval < minRefreshInterval {
		l.RefreshInterval = minRefreshInterval
	}
}
