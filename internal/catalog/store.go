// Package catalog owns the organization reference data used by the
// registration form: users, teams, departments, career tracks and track
// positions.
package catalog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/talent-registration-api/internal/metrics"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Source names used as keys in ReferenceData.LoadErrors.
const (
	SourceUsers       = "users"
	SourceTeams       = "teams"
	SourceDepartments = "departments"
	SourceTracks      = "tracks"
	SourcePositions   = "positions"
)

// load units; tracks and positions share one unit.
const (
	unitUsers = iota
	unitTeams
	unitDepartments
	unitTracks
	unitCount
)

// ReferenceData is an immutable view of the taxonomy.
type ReferenceData struct {
	Users       []models.User          `json:"users"`
	Teams       []models.Team          `json:"teams"`
	Departments []models.Department    `json:"departments"`
	Tracks      []models.CareerTrack   `json:"tracks"`
	Positions   []models.TrackPosition `json:"positions"`

	// LoadErrors maps a source name to the message of its last failed load.
	LoadErrors map[string]string `json:"load_errors,omitempty"`
}

// Store caches ReferenceData. It is safe for concurrent use.
type Store struct {
	reader  repository.CatalogReader
	log     *logrus.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	data    ReferenceData
	loading [unitCount]bool
	done    [unitCount]bool
}

func NewStore(reader repository.CatalogReader, log *logrus.Logger, m *metrics.Metrics) *Store {
	return &Store{
		reader:  reader,
		log:     log,
		metrics: m,
		data:    ReferenceData{LoadErrors: map[string]string{}},
	}
}

// Reload runs the four loads concurrently and returns the resulting snapshot.
// A failing load leaves its list empty and never fails the others.
func (s *Store) Reload(ctx context.Context) ReferenceData {
	var g errgroup.Group

	g.Go(func() error {
		s.run(unitUsers, func() { s.loadUsers(ctx) })
		return nil
	})
	g.Go(func() error {
		s.run(unitTeams, func() { s.loadTeams(ctx) })
		return nil
	})
	g.Go(func() error {
		s.run(unitDepartments, func() { s.loadDepartments(ctx) })
		return nil
	})
	g.Go(func() error {
		s.run(unitTracks, func() { s.loadTracksAndPositions(ctx) })
		return nil
	})

	_ = g.Wait()
	return s.Snapshot()
}

// ReloadUsers refreshes only the user list.
func (s *Store) ReloadUsers(ctx context.Context) {
	s.run(unitUsers, func() { s.loadUsers(ctx) })
}

// Ready reports whether every load unit has completed at least once and none
// is currently running.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := 0; i < unitCount; i++ {
		if s.loading[i] || !s.done[i] {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of the cached data.
func (s *Store) Snapshot() ReferenceData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	errs := make(map[string]string, len(s.data.LoadErrors))
	for k, v := range s.data.LoadErrors {
		errs[k] = v
	}

	return ReferenceData{
		Users:       clone(s.data.Users),
		Teams:       clone(s.data.Teams),
		Departments: clone(s.data.Departments),
		Tracks:      clone(s.data.Tracks),
		Positions:   clone(s.data.Positions),
		LoadErrors:  errs,
	}
}

// clone copies a list and never returns nil, so empty lists encode as [].
func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func (s *Store) run(unit int, load func()) {
	s.mu.Lock()
	s.loading[unit] = true
	s.mu.Unlock()

	load()

	s.mu.Lock()
	s.loading[unit] = false
	s.done[unit] = true
	s.mu.Unlock()
}

// record stores the outcome of one source under the lock.
func (s *Store) record(source string, err error, apply func(d *ReferenceData)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apply(&s.data)
	if err == nil {
		delete(s.data.LoadErrors, source)
		return
	}
	s.data.LoadErrors[source] = err.Error()
}

func (s *Store) fail(source string, err error) {
	s.log.WithError(err).WithField("source", source).Warn("Failed to load reference data")
	s.metrics.ObserveReferenceLoadFailure(source)
}

func (s *Store) loadUsers(ctx context.Context) {
	users, err := s.reader.ListUsers(ctx)
	if err != nil {
		s.fail(SourceUsers, err)
		users = nil
	}
	s.record(SourceUsers, err, func(d *ReferenceData) { d.Users = users })
}

func (s *Store) loadTeams(ctx context.Context) {
	teams, err := s.reader.ListTeams(ctx)
	if err != nil {
		s.fail(SourceTeams, err)
		teams = nil
	}
	s.record(SourceTeams, err, func(d *ReferenceData) { d.Teams = teams })
}

func (s *Store) loadDepartments(ctx context.Context) {
	deps, err := s.reader.ListDepartments(ctx)
	if err != nil {
		s.fail(SourceDepartments, err)
		deps = nil
	}
	s.record(SourceDepartments, err, func(d *ReferenceData) { d.Departments = deps })
}

func (s *Store) loadTracksAndPositions(ctx context.Context) {
	tracks, err := s.reader.ListTracks(ctx)
	if err != nil {
		s.fail(SourceTracks, err)
		tracks = nil
	}
	s.record(SourceTracks, err, func(d *ReferenceData) { d.Tracks = tracks })

	positions, err := s.reader.ListTrackPositions(ctx)
	if err != nil {
		s.fail(SourcePositions, err)
		positions = nil
	} else {
		positions = s.resolveJobPositions(ctx, positions)
	}
	s.record(SourcePositions, err, func(d *ReferenceData) { d.Positions = positions })
}

// resolveJobPositions joins each track position with its job position. When
// the lookup fails the links are returned without a resolved position.
func (s *Store) resolveJobPositions(ctx context.Context, positions []models.TrackPosition) []models.TrackPosition {
	if len(positions) == 0 {
		return positions
	}

	seen := make(map[uint64]bool, len(positions))
	ids := make([]uint64, 0, len(positions))
	for _, tp := range positions {
		if !seen[tp.PositionID] {
			seen[tp.PositionID] = true
			ids = append(ids, tp.PositionID)
		}
	}

	jobs, err := s.reader.FindJobPositionsByIDs(ctx, ids)
	if err != nil {
		s.log.WithError(err).Warn("Failed to resolve job positions, keeping raw track positions")
		return positions
	}

	byID := make(map[uint64]*models.JobPosition, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}

	enriched := make([]models.TrackPosition, len(positions))
	for i, tp := range positions {
		tp.Position = byID[tp.PositionID]
		enriched[i] = tp
	}
	return enriched
}
