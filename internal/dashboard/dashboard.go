package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"studycopilot/internal/api"
)

// Service is the slice of the transport client the dashboard needs.
type Service interface {
	DashboardStats(ctx context.Context) (api.DashboardStats, error)
}

// Snapshot is the dashboard view-model.
type Snapshot struct {
	Stats  api.DashboardStats
	Loaded bool
	Err    string
}

// Manager caches the last fetched dashboard stats.
type Manager struct {
	mu     sync.Mutex
	svc    Service
	stats  api.DashboardStats
	loaded bool
	errMsg string
}

func NewManager(svc Service) *Manager {
	return &Manager{svc: svc}
}

// Refresh refetches the stats. Failure keeps the previous stats on screen
// and records the error alongside.
func (m *Manager) Refresh(ctx context.Context) error {
	stats, err := m.svc.DashboardStats(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.errMsg = err.Error()
		return err
	}
	m.stats = stats
	m.loaded = true
	m.errMsg = ""
	return nil
}

// Snapshot returns a copy of the dashboard view-model.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{Stats: m.stats, Loaded: m.loaded, Err: m.errMsg}
}

// Greeting picks the salutation by local hour: morning before 12, afternoon
// before 17, evening after.
func Greeting(now time.Time, userName string) (period, name string) {
	switch h := now.Hour(); {
	case h < 12:
		period = "morning"
	case h < 17:
		period = "afternoon"
	default:
		period = "evening"
	}
	name = strings.TrimSpace(userName)
	return period, name
}
