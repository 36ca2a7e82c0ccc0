package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fabrica-vision/presenca/internal/attendance"
	"github.com/fabrica-vision/presenca/internal/domain"
	"github.com/fabrica-vision/presenca/internal/metrics"
	"github.com/fabrica-vision/presenca/internal/provider"
	"github.com/fabrica-vision/presenca/internal/recognizer"
)

// ErrTickInFlight indica que o ciclo anterior ainda está em execução; o
// chamador deve descartar o tick em vez de enfileirar.
var ErrTickInFlight = errors.New("recognition tick already in flight")

// state is the per-session mutable data. A new state is allocated on
// Start, so ticks racing a Stop write into a detached state and their
// marks vanish with it instead of leaking into the next session.
type state struct {
	id        uuid.UUID
	startedAt time.Time

	mu     sync.Mutex
	marked map[string]struct{}
	ticks  uint64
}

func (s *state) alreadyMarked(studentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.marked[studentID]
	return ok
}

func (s *state) remember(studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked[studentID] = struct{}{}
}

func (s *state) snapshot() (uint64, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	students := make([]string, 0, len(s.marked))
	for id := range s.marked {
		students = append(students, id)
	}
	return s.ticks, students
}

// Summary describes a finished session.
type Summary struct {
	SessionID      uuid.UUID `json:"session_id"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
	Ticks          uint64    `json:"ticks"`
	MarkedStudents []string  `json:"marked_students"`
}

// Status is the live view of the controller.
type Status struct {
	Active    bool       `json:"active"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Ticks     uint64     `json:"ticks"`
	Marked    int        `json:"marked"`
}

// Controller runs the recognition pipeline for one session at a time:
// refresh the known-face catalog, encode the frame, match each face and
// route matches through the attendance guard. Per-session deduplication
// keeps already-marked students from hitting the database on every frame;
// a storage failure leaves the student out of the set so the next tick
// retries.
type Controller struct {
	cache   *recognizer.KnownFaceCache
	matcher *recognizer.Matcher
	encoder provider.FaceEncoder
	guard   *attendance.Guard
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time

	current atomic.Pointer[state]
	tickMu  sync.Mutex
}

// NewController wires the recognition pipeline.
func NewController(
	cache *recognizer.KnownFaceCache,
	matcher *recognizer.Matcher,
	encoder provider.FaceEncoder,
	guard *attendance.Guard,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		cache:   cache,
		matcher: matcher,
		encoder: encoder,
		guard:   guard,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Active reports whether a session is running.
func (c *Controller) Active() bool {
	return c.current.Load() != nil
}

// Status returns the live session view.
func (c *Controller) Status() Status {
	st := c.current.Load()
	if st == nil {
		return Status{}
	}
	ticks, students := st.snapshot()
	id := st.id
	startedAt := st.startedAt
	return Status{
		Active:    true,
		SessionID: &id,
		StartedAt: &startedAt,
		Ticks:     ticks,
		Marked:    len(students),
	}
}

// Start begins a new session with an empty deduplication set. Returns
// ErrSessionActive when one is already running.
func (c *Controller) Start(ctx context.Context) (uuid.UUID, error) {
	fresh := &state{
		id:        uuid.New(),
		startedAt: c.now(),
		marked:    make(map[string]struct{}),
	}
	if !c.current.CompareAndSwap(nil, fresh) {
		return uuid.Nil, domain.ErrSessionActive
	}

	// Warm the catalog so the first tick does not pay the load.
	if err := c.cache.Refresh(ctx); err != nil {
		c.metrics.CacheRefreshes.WithLabelValues("error").Inc()
		c.logger.Warn("catalog warmup failed, first tick will retry",
			slog.String("error", err.Error()))
	} else {
		c.metrics.CacheRefreshes.WithLabelValues("ok").Inc()
		c.metrics.KnownFaces.Set(float64(c.cache.Get().Count()))
	}

	c.metrics.SessionsActive.Inc()
	c.logger.Info("recognition session started", slog.String("session_id", fresh.id.String()))
	return fresh.id, nil
}

// Stop ends the running session and returns its summary. Returns
// ErrSessionNotActive when no session is running.
func (c *Controller) Stop() (*Summary, error) {
	st := c.current.Swap(nil)
	if st == nil {
		return nil, domain.ErrSessionNotActive
	}

	ticks, students := st.snapshot()
	c.metrics.SessionsActive.Dec()
	c.logger.Info("recognition session ended",
		slog.String("session_id", st.id.String()),
		slog.Uint64("ticks", ticks),
		slog.Int("marked", len(students)),
	)
	return &Summary{
		SessionID:      st.id,
		StartedAt:      st.startedAt,
		EndedAt:        c.now(),
		Ticks:          ticks,
		MarkedStudents: students,
	}, nil
}

// Tick processes one frame through the full pipeline and returns one
// result per detected face. Calls are non-reentrant: a tick arriving
// while another runs gets ErrTickInFlight. A tick with no active session
// gets ErrSessionNotActive.
func (c *Controller) Tick(ctx context.Context, frame []byte) ([]domain.TickResult, error) {
	if !c.tickMu.TryLock() {
		return nil, ErrTickInFlight
	}
	defer c.tickMu.Unlock()

	st := c.current.Load()
	if st == nil {
		return nil, domain.ErrSessionNotActive
	}

	started := c.now()
	defer func() {
		c.metrics.TickDuration.Observe(time.Since(started).Seconds())
	}()

	snap, err := c.cache.RefreshIfStale(ctx)
	if err != nil {
		c.metrics.CacheRefreshes.WithLabelValues("error").Inc()
	} else {
		c.metrics.KnownFaces.Set(float64(snap.Count()))
	}

	faces, err := c.encoder.DetectAndEncode(ctx, frame)
	if err != nil {
		c.metrics.EncoderRequests.WithLabelValues("error").Inc()
		c.metrics.TicksTotal.WithLabelValues("encoder_error").Inc()
		return nil, err
	}
	c.metrics.EncoderRequests.WithLabelValues("ok").Inc()
	c.metrics.FacesDetected.Add(float64(len(faces)))

	results := make([]domain.TickResult, 0, len(faces))
	for _, face := range faces {
		match := c.matcher.Match(face.Embedding, snap, face.Region)
		if !match.IsMatch {
			c.metrics.MatchesTotal.WithLabelValues("unknown").Inc()
			results = append(results, domain.TickResult{
				MatchResult: match,
				Attendance:  domain.MarkSkipped,
			})
			continue
		}
		c.metrics.MatchesTotal.WithLabelValues("matched").Inc()
		results = append(results, c.mark(ctx, st, match))
	}

	st.mu.Lock()
	st.ticks++
	st.mu.Unlock()

	c.metrics.TicksTotal.WithLabelValues("ok").Inc()
	return results, nil
}

func (c *Controller) mark(ctx context.Context, st *state, match domain.MatchResult) domain.TickResult {
	if st.alreadyMarked(match.StudentID) {
		c.metrics.MarksTotal.WithLabelValues(string(domain.MarkSkipped)).Inc()
		return domain.TickResult{MatchResult: match, Attendance: domain.MarkSkipped}
	}

	result, err := c.guard.TryMark(ctx, match.StudentID, match.Name, c.now())
	if err != nil {
		// Student stays out of the dedup set so a later tick retries.
		c.metrics.StorageFailures.Inc()
		c.metrics.MarksTotal.WithLabelValues(string(domain.MarkUnavailable)).Inc()
		return domain.TickResult{MatchResult: match, Attendance: domain.MarkUnavailable}
	}

	st.remember(match.StudentID)
	c.metrics.MarksTotal.WithLabelValues(string(result.Outcome)).Inc()

	tick := domain.TickResult{MatchResult: match, Attendance: result.Outcome}
	if result.Record != nil {
		tick.MarkedAt = result.Record.Time
	}
	return tick
}
