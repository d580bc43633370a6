package screens

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"planets-client/internal/planet"
	"planets-client/internal/shared/errors"
)

// PlanetLister is the part of the planet client the list screen needs.
type PlanetLister interface {
	List(ctx context.Context) ([]planet.Planet, error)
	Create(ctx context.Context, p planet.NewPlanet) error
}

// ListScreen shows every planet, optionally ordered by moon count, and
// stages new planets in a creation form.
type ListScreen struct {
	planets PlanetLister
	logger  *slog.Logger

	mu       sync.Mutex
	guard    guard
	items    []planet.Planet
	sorted   bool
	loading  bool
	formOpen bool
	draft    planet.NewPlanet
}

func NewListScreen(planets PlanetLister, logger *slog.Logger) *ListScreen {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListScreen{
		planets: planets,
		logger:  logger.With("component", "list_screen"),
		guard:   newGuard(),
		items:   []planet.Planet{},
	}
}

// Load replaces the held planets with the service's current list. On
// failure the list is emptied and the error returned.
func (s *ListScreen) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.guard.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	gen, ctx, cancel := s.guard.begin(ctx)
	s.loading = true
	s.mu.Unlock()
	defer cancel()

	logger := s.logger.With("operation", "load", "generation", gen)
	logger.Debug("Loading planets")

	planets, err := s.planets.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.guard.current(gen) {
		logger.Debug("Discarding stale planet list")
		return ErrStale
	}
	s.loading = false

	if err != nil {
		logger.Error("Failed to load planets", "error", err)
		s.items = []planet.Planet{}
		return err
	}

	s.items = planets
	if s.sorted {
		planet.SortByMoonsDesc(s.items)
	}

	logger.Debug("Planets loaded", "count", len(planets))
	return nil
}

// ToggleSort switches between service order and moons descending. Sorting
// is done in memory; switching back re-fetches the list once.
func (s *ListScreen) ToggleSort(ctx context.Context) error {
	s.mu.Lock()
	if s.guard.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	if !s.sorted {
		s.sorted = true
		planet.SortByMoonsDesc(s.items)
		s.mu.Unlock()
		return nil
	}

	s.sorted = false
	s.mu.Unlock()
	return s.Load(ctx)
}

// Planets returns a copy of the planets in display order.
func (s *ListScreen) Planets() []planet.Planet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]planet.Planet, len(s.items))
	for i, p := range s.items {
		out[i] = p.Clone()
	}
	return out
}

func (s *ListScreen) Sorted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted
}

func (s *ListScreen) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *ListScreen) OpenForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formOpen = true
}

// CloseForm hides the form. The draft is kept for the next OpenForm.
func (s *ListScreen) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formOpen = false
}

func (s *ListScreen) FormOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formOpen
}

// Draft returns a copy of the planet being staged.
func (s *ListScreen) Draft() planet.NewPlanet {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.MoonNames = slices.Clone(s.draft.MoonNames)
	return d
}

func (s *ListScreen) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Name = name
}

func (s *ListScreen) SetDescription(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Description = description
}

func (s *ListScreen) SetImage(image string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Image = image
}

// AddDraftMoon stages a moon on the draft. Blank names are rejected.
func (s *ListScreen) AddDraftMoon(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.draft.AddMoon(name) {
		return errors.Validation("moon name cannot be empty")
	}
	return nil
}

// SubmitDraft creates the staged planet. The draft must have a name, a
// description and an image; otherwise nothing is sent. On success the form
// closes, the draft resets and the list reloads. On failure the draft stays.
// A failed reload after a successful create is returned wrapped in
// ErrRefresh.
func (s *ListScreen) SubmitDraft(ctx context.Context) error {
	s.mu.Lock()
	if s.guard.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.formOpen {
		s.mu.Unlock()
		return errors.Validation("the creation form is not open")
	}
	draft := s.draft
	draft.MoonNames = slices.Clone(s.draft.MoonNames)
	ctx, cancel := s.guard.bind(ctx)
	s.mu.Unlock()
	defer cancel()

	if !draft.Complete() {
		return errors.Validation("name, description and image are required")
	}

	logger := s.logger.With("operation", "submit_draft", "name", draft.Name)
	logger.Info("Creating planet")

	if err := s.planets.Create(ctx, draft); err != nil {
		logger.Error("Failed to create planet", "error", err)
		return err
	}

	s.mu.Lock()
	if s.guard.closed {
		s.mu.Unlock()
		return ErrStale
	}
	s.formOpen = false
	s.draft = planet.NewPlanet{}
	s.mu.Unlock()

	logger.Info("Planet created")

	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}
	return nil
}

// Close unmounts the screen. In-flight loads are cancelled and their
// results discarded.
func (s *ListScreen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guard.close()
	s.loading = false
}
