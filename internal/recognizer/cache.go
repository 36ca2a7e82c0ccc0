package recognizer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fabrica-vision/presenca/internal/domain"
)

// StudentLister é a visão do repositório que o cache precisa: apenas os
// alunos com embedding cadastrado.
type StudentLister interface {
	ListWithEmbeddings(ctx context.Context) ([]domain.Student, error)
}

// Snapshot is an immutable view of the known-face catalog at a point in
// time. Callers must not mutate the slices.
type Snapshot struct {
	Students  []domain.Student
	LoadedAt  time.Time
	FromStale bool
}

// Count returns the number of known faces in the snapshot.
func (s *Snapshot) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Students)
}

// KnownFaceCache keeps the student catalog in memory so recognition ticks
// never block on the database. Reads go through an atomic pointer; a
// refresh builds a whole new snapshot and swaps it in one step, so readers
// always see either the old or the new catalog, never a half-loaded one.
type KnownFaceCache struct {
	repo   StudentLister
	maxAge time.Duration
	logger *slog.Logger

	snapshot atomic.Pointer[Snapshot]

	// refreshMu serializes refreshes so concurrent stale readers do not
	// stampede the database.
	refreshMu sync.Mutex
}

// NewKnownFaceCache creates an empty cache. The first Refresh (or the
// first RefreshIfStale) populates it.
func NewKnownFaceCache(repo StudentLister, maxAge time.Duration, logger *slog.Logger) *KnownFaceCache {
	c := &KnownFaceCache{
		repo:   repo,
		maxAge: maxAge,
		logger: logger,
	}
	c.snapshot.Store(&Snapshot{})
	return c
}

// Get returns the current snapshot without touching the database.
func (c *KnownFaceCache) Get() *Snapshot {
	return c.snapshot.Load()
}

// Stale reports whether the current snapshot is older than the configured
// max age. An empty, never-loaded cache is always stale.
func (c *KnownFaceCache) Stale() bool {
	snap := c.snapshot.Load()
	return snap.LoadedAt.IsZero() || time.Since(snap.LoadedAt) > c.maxAge
}

// Refresh reloads the catalog from the repository and swaps the snapshot.
// On failure the previous snapshot stays in place and the error is
// returned, so a database hiccup degrades to serving stale data instead
// of an empty catalog.
func (c *KnownFaceCache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	students, err := c.repo.ListWithEmbeddings(ctx)
	if err != nil {
		c.logger.Warn("known-face cache refresh failed, keeping previous snapshot",
			slog.String("error", err.Error()),
			slog.Int("stale_count", c.snapshot.Load().Count()),
		)
		return err
	}

	c.snapshot.Store(&Snapshot{
		Students: students,
		LoadedAt: time.Now(),
	})

	c.logger.Debug("known-face cache refreshed", slog.Int("count", len(students)))
	return nil
}

// RefreshIfStale refreshes only when the snapshot exceeded its max age and
// returns the snapshot to use for this cycle. When the refresh fails the
// stale snapshot is returned with FromStale set, alongside the error.
func (c *KnownFaceCache) RefreshIfStale(ctx context.Context) (*Snapshot, error) {
	if !c.Stale() {
		return c.snapshot.Load(), nil
	}

	if err := c.Refresh(ctx); err != nil {
		stale := *c.snapshot.Load()
		stale.FromStale = true
		return &stale, err
	}
	return c.snapshot.Load(), nil
}

// Invalidate marks the snapshot as stale so the next RefreshIfStale hits
// the database. Called after catalog writes (create/update/delete).
func (c *KnownFaceCache) Invalidate() {
	snap := c.snapshot.Load()
	c.snapshot.Store(&Snapshot{
		Students: snap.Students,
	})
}
