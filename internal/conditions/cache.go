package conditions

import (
	"context"
	"sync"
	"time"

	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

// DefaultStalenessThreshold is the maximum snapshot age considered safely
// reusable without refetching.
const DefaultStalenessThreshold = 6 * time.Hour

// CacheState describes the cache slot.
type CacheState string

const (
	CacheEmpty CacheState = "empty"
	CacheFresh CacheState = "fresh"
	CacheStale CacheState = "stale"
)

// Store persists the single most recent snapshot. Each save overwrites the
// previous one; a load of a missing or unreadable snapshot returns (nil, nil).
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot *ViewingConditions) error
	LoadSnapshot(ctx context.Context) (*ViewingConditions, error)
}

// SnapshotBuilder produces a fresh snapshot for a location and horizon.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context, loc Location, days int) (*ViewingConditions, error)
}

// Notifier is told about each successful refresh.
type Notifier interface {
	ConditionsUpdated(snapshot *ViewingConditions)
}

// Manager governs the single cache slot: it decides whether the stored
// snapshot may be reused, persists the most recent snapshot, and reconciles
// cache identity against the requested location. All slot mutation happens
// under one mutex; concurrent callers are serialized.
type Manager struct {
	builder   SnapshotBuilder
	store     Store
	threshold time.Duration
	days      int
	logger    *logger.Logger
	notifier  Notifier

	mu       sync.Mutex
	snapshot *ViewingConditions
	restored bool

	now func() time.Time
}

// NewManager creates a cache manager over one slot. A non-positive threshold
// falls back to the default of 6 hours.
func NewManager(builder SnapshotBuilder, store Store, threshold time.Duration, days int, log *logger.Logger) *Manager {
	if threshold <= 0 {
		threshold = DefaultStalenessThreshold
	}
	return &Manager{
		builder:   builder,
		store:     store,
		threshold: threshold,
		days:      days,
		logger:    log.Named("conditions-cache"),
		now:       time.Now,
	}
}

// SetNotifier registers a notifier for successful refreshes.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = n
}

// EnsureLoaded restores the persisted snapshot into memory if one exists.
// Unreadable persisted data degrades to an empty slot, never an error.
func (m *Manager) EnsureLoaded(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
}

func (m *Manager) ensureLoaded(ctx context.Context) {
	if m.restored || m.snapshot != nil {
		return
	}
	m.restored = true

	snapshot, err := m.store.LoadSnapshot(ctx)
	if err != nil {
		m.logger.Warn("Failed to restore persisted snapshot, starting empty", logger.Error(err))
		return
	}
	if snapshot == nil {
		return
	}

	m.snapshot = snapshot
	m.logger.Info("Restored persisted snapshot",
		logger.String("location", snapshot.Location.Name),
		logger.Time("fetched_at", snapshot.FetchedAt),
		logger.String("state", string(m.state())))
}

// NeedsRefresh reports whether the slot must be refetched for the requested
// location: the slot is empty, the snapshot is stale by age, or the stored
// location name does not match the requested one.
func (m *Manager) NeedsRefresh(loc Location) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.needsRefresh(loc)
}

func (m *Manager) needsRefresh(loc Location) bool {
	if m.snapshot == nil {
		return true
	}
	if m.snapshot.Age(m.now()) >= m.threshold {
		return true
	}
	return m.snapshot.Location.Name != loc.Name
}

// Refresh always invokes the orchestrator. On success the in-memory snapshot
// is replaced, persisted, and the freshness clock resets. On failure the
// previous snapshot, if any, is left untouched and the error is surfaced.
func (m *Manager) Refresh(ctx context.Context, loc Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh(ctx, loc)
}

func (m *Manager) refresh(ctx context.Context, loc Location) error {
	snapshot, err := m.builder.BuildSnapshot(ctx, loc, m.days)
	if err != nil {
		m.logger.Warn("Refresh failed, keeping previous snapshot",
			logger.String("location", loc.Name),
			logger.Bool("has_previous", m.snapshot != nil),
			logger.Error(err))
		return err
	}

	m.snapshot = snapshot

	if err := m.store.SaveSnapshot(ctx, snapshot); err != nil {
		// The snapshot is already valid in memory; a persist failure only
		// costs the next process restart its warm start.
		m.logger.Warn("Failed to persist snapshot", logger.Error(err))
	}

	m.logger.Info("Snapshot refreshed",
		logger.String("location", loc.Name),
		logger.Time("fetched_at", snapshot.FetchedAt))

	if m.notifier != nil {
		m.notifier.ConditionsUpdated(snapshot)
	}

	return nil
}

// LoadConditionsIfNeeded is the single entry point callers should use:
// restore from persistence, refresh when needed, otherwise serve the
// in-memory snapshot unchanged. At most one refresh per invocation. When a
// refresh fails the previous snapshot, if any, is returned alongside the
// error so callers can keep showing the last good value.
func (m *Manager) LoadConditionsIfNeeded(ctx context.Context, loc Location) (*ViewingConditions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx)

	if m.needsRefresh(loc) {
		if err := m.refresh(ctx, loc); err != nil {
			return m.snapshot, err
		}
	}

	return m.snapshot, nil
}

// State reports the slot state by age alone: empty, fresh, or stale.
func (m *Manager) State() CacheState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state()
}

func (m *Manager) state() CacheState {
	if m.snapshot == nil {
		return CacheEmpty
	}
	if m.snapshot.Age(m.now()) < m.threshold {
		return CacheFresh
	}
	return CacheStale
}

// Snapshot returns the current in-memory snapshot, or nil.
func (m *Manager) Snapshot() *ViewingConditions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// Clear evicts the slot. The persisted copy is overwritten by the next
// successful refresh.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	m.restored = true
	m.logger.Info("Cache slot cleared")
}

// Stats returns cache statistics for the API.
func (m *Manager) Stats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := map[string]any{
		"state":             string(m.state()),
		"threshold_seconds": int(m.threshold.Seconds()),
	}
	if m.snapshot != nil {
		stats["location"] = m.snapshot.Location.Name
		stats["fetched_at"] = m.snapshot.FetchedAt
		stats["age_seconds"] = int(m.snapshot.Age(m.now()).Seconds())
	}
	return stats
}
