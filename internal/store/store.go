// Package store holds the authoritative set of trips in memory and persists
// changes to SQLite in debounced batches.
//
// Every mutation of a trip runs inside that trip's critical section: the
// change is applied to a copy, committed, marked dirty, and broadcast before
// the lock is released, so observers see updates in commit order. Different
// trips never contend.
package store

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/hpungsan/indotrip/internal/db"
	"github.com/hpungsan/indotrip/internal/errors"
	"github.com/hpungsan/indotrip/internal/live"
	"github.com/hpungsan/indotrip/internal/trip"
)

// DefaultDebounce is the delay between the last mutation and the write.
const DefaultDebounce = 120 * time.Millisecond

// Publisher receives encoded snapshot events.
type Publisher interface {
	Publish(tripID string, event []byte) int
}

// Options configures a Store.
type Options struct {
	Debounce  time.Duration
	Publisher Publisher
	Logger    zerolog.Logger
	Now       func() time.Time
}

type entry struct {
	mu   sync.Mutex
	trip *trip.Trip
}

// Persisted describes what has reached the database.
type Persisted struct {
	Trips     int       `json:"trips"`
	LastSaved time.Time `json:"last_saved"`
}

// Store is safe for concurrent use.
type Store struct {
	save     func(ctx context.Context, trips []*trip.Trip) error
	probe    func(ctx context.Context) (Persisted, error)
	pub      Publisher
	log      zerolog.Logger
	now      func() time.Time
	debounce time.Duration

	mu    sync.RWMutex
	trips map[string]*entry

	flushMu sync.Mutex

	dirtyMu    sync.Mutex
	dirty      map[string]struct{}
	timer      *time.Timer
	retry      *backoff.ExponentialBackOff
	backingOff bool
	closed     bool
}

// Open loads every stored trip from sqlDB.
func Open(ctx context.Context, sqlDB *sql.DB, opts Options) (*Store, error) {
	trips, err := db.LoadAll(ctx, sqlDB)
	if err != nil {
		return nil, err
	}
	s := newStore(func(ctx context.Context, trips []*trip.Trip) error {
		return db.SaveTrips(ctx, sqlDB, trips)
	}, opts)
	s.probe = func(ctx context.Context) (Persisted, error) {
		n, err := db.Count(ctx, sqlDB)
		if err != nil {
			return Persisted{}, err
		}
		last, err := db.LastUpdated(ctx, sqlDB)
		if err != nil {
			return Persisted{}, err
		}
		return Persisted{Trips: n, LastSaved: last}, nil
	}
	for _, t := range trips {
		s.trips[t.ID] = &entry{trip: t}
	}
	tripsGauge.Set(float64(len(s.trips)))
	s.log.Info().Int("trips", len(trips)).Msg("store loaded")
	return s, nil
}

func newStore(save func(context.Context, []*trip.Trip) error, opts Options) *Store {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = opts.Debounce
	retry.Multiplier = 2
	retry.MaxInterval = 30 * time.Second
	retry.MaxElapsedTime = 0
	retry.Reset()

	return &Store{
		save:     save,
		pub:      opts.Publisher,
		log:      opts.Logger.With().Str("component", "store").Logger(),
		now:      opts.Now,
		debounce: opts.Debounce,
		trips:    make(map[string]*entry),
		dirty:    make(map[string]struct{}),
		retry:    retry,
	}
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.trips[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFound("trip", id)
	}
	return e, nil
}

// Insert adds a new trip. It fails with CONFLICT if the id is taken.
func (s *Store) Insert(ctx context.Context, t *trip.Trip) (*trip.View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := &entry{trip: t.Clone()}
	e.mu.Lock()
	defer e.mu.Unlock()

	s.mu.Lock()
	if _, exists := s.trips[t.ID]; exists {
		s.mu.Unlock()
		mutationsTotal.WithLabelValues("conflict").Inc()
		return nil, errors.NewConflict("trip id already exists: " + t.ID)
	}
	s.trips[t.ID] = e
	tripsGauge.Set(float64(len(s.trips)))
	s.mu.Unlock()

	return s.commitLocked(e), nil
}

// Update runs fn on a copy of the trip inside its critical section. If fn
// returns an error nothing changes. If fn reports no change the current
// snapshot is returned and nothing is persisted or broadcast. Otherwise the
// copy replaces the trip, updated_at is refreshed, and a snapshot event is
// published before the lock is released.
func (s *Store) Update(ctx context.Context, id string, fn func(t *trip.Trip) (bool, error)) (*trip.View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	draft := e.trip.Clone()
	changed, err := fn(draft)
	if err != nil {
		mutationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if !changed {
		mutationsTotal.WithLabelValues("unchanged").Inc()
		return trip.NewView(e.trip), nil
	}

	draft.UpdatedAt = s.now().UTC()
	e.trip = draft
	return s.commitLocked(e), nil
}

// commitLocked marks e dirty and broadcasts its snapshot. e.mu must be held.
func (s *Store) commitLocked(e *entry) *trip.View {
	mutationsTotal.WithLabelValues("committed").Inc()
	s.markDirty(e.trip.ID)

	view := trip.NewView(e.trip)
	if s.pub != nil {
		event, err := live.EncodeUpdate(view)
		if err != nil {
			s.log.Error().Err(err).Str("trip_id", view.ID).Msg("encode update")
		} else {
			n := s.pub.Publish(view.ID, event)
			s.log.Debug().Str("trip_id", view.ID).Int("subscribers", n).Msg("broadcast")
		}
	}
	return view
}

// Get returns a snapshot view of the trip.
func (s *Store) Get(id string) (*trip.View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return trip.NewView(e.trip), nil
}

// Snapshot returns a private copy of the stored trip.
func (s *Store) Snapshot(id string) (*trip.Trip, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trip.Clone(), nil
}

// List summarizes every trip, most recently updated first.
func (s *Store) List() []trip.Summary {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.trips))
	for _, e := range s.trips {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]trip.Summary, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, trip.Summarize(e.trip))
		e.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b trip.Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// markDirty records id for the next flush and (re)arms the debounce timer.
// While a failed flush is backing off the retry schedule is left alone.
func (s *Store) markDirty(id string) {
	s.dirtyMu.Lock()
	defer s.dirtyMu.Unlock()

	s.dirty[id] = struct{}{}
	dirtyGauge.Set(float64(len(s.dirty)))
	if s.closed || s.backingOff {
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.flushFromTimer)
		return
	}
	s.timer.Reset(s.debounce)
}

func (s *Store) flushFromTimer() {
	err := s.Flush(context.Background())

	s.dirtyMu.Lock()
	defer s.dirtyMu.Unlock()
	if s.closed {
		return
	}
	if err == nil {
		s.backingOff = false
		s.retry.Reset()
		// Commits that landed during a retry did not re-arm the timer.
		if len(s.dirty) > 0 {
			s.timer.Reset(s.debounce)
		}
		return
	}
	wait := s.retry.NextBackOff()
	s.backingOff = true
	s.log.Warn().Err(err).Dur("retry_in", wait).Int("dirty", len(s.dirty)).Msg("flush failed")
	s.timer.Reset(wait)
}

// Flush writes every dirty trip in one transaction. On failure the trips stay
// dirty and the error is returned.
func (s *Store) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.dirtyMu.Lock()
	pending := s.dirty
	s.dirty = make(map[string]struct{})
	s.dirtyMu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	batch := make([]*trip.Trip, 0, len(ids))
	for _, id := range ids {
		t, err := s.Snapshot(id)
		if err != nil {
			continue
		}
		batch = append(batch, t)
	}

	start := time.Now()
	err := s.save(ctx, batch)
	flushDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		flushesTotal.WithLabelValues("error").Inc()
		s.dirtyMu.Lock()
		for _, id := range ids {
			s.dirty[id] = struct{}{}
		}
		dirtyGauge.Set(float64(len(s.dirty)))
		s.dirtyMu.Unlock()
		return err
	}

	flushesTotal.WithLabelValues("ok").Inc()
	s.dirtyMu.Lock()
	dirtyGauge.Set(float64(len(s.dirty)))
	s.dirtyMu.Unlock()
	s.log.Debug().Int("trips", len(batch)).Dur("took", time.Since(start)).Msg("flushed")
	return nil
}

// Persisted queries the database for the stored trip count and newest save.
// It doubles as a health probe. Stores built without a database report zero.
func (s *Store) Persisted(ctx context.Context) (Persisted, error) {
	if s.probe == nil {
		return Persisted{}, nil
	}
	return s.probe(ctx)
}

// Dirty reports how many trips await a flush.
func (s *Store) Dirty() int {
	s.dirtyMu.Lock()
	defer s.dirtyMu.Unlock()
	return len(s.dirty)
}

// Close stops the debounce timer and performs a final synchronous flush.
// Mutations after Close are still applied in memory but only reach disk via
// an explicit Flush.
func (s *Store) Close(ctx context.Context) error {
	s.dirtyMu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.dirtyMu.Unlock()

	if err := s.Flush(ctx); err != nil {
		s.log.Error().Err(err).Msg("final flush failed")
		return err
	}
	s.log.Info().Msg("store closed")
	return nil
}
