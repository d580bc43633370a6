package screens

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"planets-client/internal/planet"
	"planets-client/internal/shared/errors"
)

// PlanetEditor is the part of the planet client the detail screen needs.
type PlanetEditor interface {
	GetByID(ctx context.Context, id planet.ID) (*planet.Planet, error)
	Update(ctx context.Context, id planet.ID, u planet.Update) error
	Delete(ctx context.Context, id planet.ID) error
}

// DetailScreen shows one planet. Edits are staged on a working copy and only
// sent by SubmitEdit. Deletion must be requested before it is confirmed.
type DetailScreen struct {
	planets PlanetEditor
	logger  *slog.Logger
	id      planet.ID

	mu          sync.Mutex
	guard       guard
	shown       *planet.Planet
	working     planet.Planet
	description string
	loading     bool
	editing     bool
	confirming  bool
	deleted     bool
}

func NewDetailScreen(id planet.ID, planets PlanetEditor, logger *slog.Logger) *DetailScreen {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailScreen{
		planets: planets,
		logger:  logger.With("component", "detail_screen", "planet_id", id),
		id:      id,
		guard:   newGuard(),
	}
}

func (s *DetailScreen) ID() planet.ID {
	return s.id
}

// Load fetches the planet and leaves edit and delete modes. On failure the
// screen shows "not found" and the error is returned.
func (s *DetailScreen) Load(ctx context.Context) error {
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
	logger.Debug("Loading planet")

	p, err := s.planets.GetByID(ctx, s.id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.guard.current(gen) {
		logger.Debug("Discarding stale planet")
		return ErrStale
	}
	s.loading = false

	if err != nil {
		logger.Error("Failed to load planet", "error", err)
		s.shown = nil
		s.working = planet.Planet{}
		s.description = ""
		s.editing = false
		s.confirming = false
		return err
	}

	shown := p.Clone()
	s.shown = &shown
	s.working = shown.Clone()
	s.description = shown.Description
	s.editing = false
	s.confirming = false
	return nil
}

// Planet returns a copy of the displayed planet, or nil when it could not
// be loaded.
func (s *DetailScreen) Planet() *planet.Planet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shown == nil {
		return nil
	}
	p := s.shown.Clone()
	return &p
}

// Working returns the staged copy with the staged description applied.
func (s *DetailScreen) Working() planet.Planet {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.working.Clone()
	w.Description = s.description
	return w
}

func (s *DetailScreen) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *DetailScreen) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

func (s *DetailScreen) DeletePending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirming
}

func (s *DetailScreen) Deleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleted
}

func (s *DetailScreen) StartEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shown == nil {
		return errors.NotFoundf("planet %s is not loaded", s.id)
	}
	s.editing = true
	return nil
}

// CancelEdit leaves edit mode and drops every staged change.
func (s *DetailScreen) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = false
	if s.shown != nil {
		s.working = s.shown.Clone()
		s.description = s.shown.Description
	}
}

func (s *DetailScreen) SetDescription(description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return errors.Validation("start editing before changing the description")
	}
	s.description = description
	return nil
}

func (s *DetailScreen) AddMoon(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return errors.Validation("start editing before adding moons")
	}
	if !s.working.AddMoon(name) {
		return errors.Validation("moon name cannot be empty")
	}
	return nil
}

func (s *DetailScreen) RemoveMoon(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return errors.Validation("start editing before removing moons")
	}
	if !s.working.RemoveMoon(name) {
		return errors.Validationf("planet has no moon named %q", name)
	}
	return nil
}

// SubmitEdit sends the working copy. A copy that fails Validate is not sent
// and stays in edit mode. Once sent, edit mode ends whatever the outcome; on
// success the working copy becomes the displayed planet.
func (s *DetailScreen) SubmitEdit(ctx context.Context) error {
	s.mu.Lock()
	if s.guard.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.editing {
		s.mu.Unlock()
		return errors.Validation("nothing to save outside edit mode")
	}
	w := s.working.Clone()
	w.Description = s.description
	w.SetMoonNames(slices.Clone(w.MoonNames))
	if err := w.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}

	s.editing = false
	ctx, cancel := s.guard.bind(ctx)
	s.mu.Unlock()
	defer cancel()

	logger := s.logger.With("operation", "submit_edit", "moons", w.Moons)
	logger.Info("Updating planet")

	if err := s.planets.Update(ctx, s.id, planet.UpdateFrom(w)); err != nil {
		logger.Error("Failed to update planet", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.guard.closed {
		return ErrStale
	}
	s.shown = &w
	s.working = w.Clone()
	s.description = w.Description

	logger.Info("Planet updated")
	return nil
}

// RequestDelete arms deletion; ConfirmDelete then performs it.
func (s *DetailScreen) RequestDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shown == nil {
		return errors.NotFoundf("planet %s is not loaded", s.id)
	}
	s.confirming = true
	return nil
}

func (s *DetailScreen) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirming = false
}

// ConfirmDelete deletes the planet if deletion was requested. Without a
// pending request nothing is sent. A delete that completes after Close
// returns ErrStale and leaves the screen untouched.
func (s *DetailScreen) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if s.guard.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.confirming {
		s.mu.Unlock()
		return errors.Validation("deletion was not requested")
	}
	s.confirming = false
	ctx, cancel := s.guard.bind(ctx)
	s.mu.Unlock()
	defer cancel()

	logger := s.logger.With("operation", "confirm_delete")
	logger.Info("Deleting planet")

	if err := s.planets.Delete(ctx, s.id); err != nil {
		logger.Error("Failed to delete planet", "error", err)
		return err
	}

	s.mu.Lock()
	if s.guard.closed {
		s.mu.Unlock()
		return ErrStale
	}
	s.deleted = true
	s.mu.Unlock()

	logger.Info("Planet deleted")
	return nil
}

// Close unmounts the screen, cancelling in-flight calls.
func (s *DetailScreen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guard.close()
	s.loading = false
}
