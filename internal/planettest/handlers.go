package planettest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"planets-client/internal/planet"
	"planets-client/internal/shared/errors"
	"planets-client/internal/shared/response"
)

// intercept records the request, then applies holds, header checks and
// forced statuses before the real handler runs.
func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		hold := s.hold
		required := s.requiredHeaders
		forced := s.forced[r.Method]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		logger := s.logger.With("handler", "fake_planets")

		for k, v := range required {
			if r.Header.Get(k) != v {
				response.Error(w, r, logger, errors.Unauthorized("missing required header "+k))
				return
			}
		}

		if forced != 0 {
			response.Error(w, r, logger, errors.Rejected("forced failure", forced))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, s.Planets())
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("handler", "get_planet")
	id := planet.ID(r.PathValue("id"))

	s.mu.Lock()
	i := s.indexOf(id)
	var p planet.Planet
	if i >= 0 {
		p = s.planets[i].Clone()
	}
	s.mu.Unlock()

	if i < 0 {
		response.Error(w, r, logger, errors.NotFoundf("planet %s not found", id))
		return
	}

	response.Success(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("handler", "create_planet")

	var in planet.NewPlanet
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid planet body", err))
		return
	}

	if strings.TrimSpace(in.Name) == "" {
		response.Error(w, r, logger, errors.Validation("planet name is required"))
		return
	}

	p := planet.Planet{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
	}
	p.SetMoonNames(in.MoonNames)

	s.mu.Lock()
	p.ID = s.insert(p)
	s.mu.Unlock()

	response.Success(w, http.StatusCreated, p)
}

// update consumes description and moon_names; name and image are applied
// when present. moons always follows moon_names.
func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("handler", "update_planet")
	id := planet.ID(r.PathValue("id"))

	var in struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Image       *string   `json:"image"`
		MoonNames   *[]string `json:"moon_names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid planet body", err))
		return
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		response.Error(w, r, logger, errors.NotFoundf("planet %s not found", id))
		return
	}

	p := &s.planets[i]
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.MoonNames != nil {
		p.SetMoonNames(append([]string{}, (*in.MoonNames)...))
	}
	out := p.Clone()
	s.mu.Unlock()

	response.Success(w, http.StatusOK, out)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("handler", "delete_planet")
	id := planet.ID(r.PathValue("id"))

	s.mu.Lock()
	i := s.indexOf(id)
	if i >= 0 {
		s.planets = append(s.planets[:i], s.planets[i+1:]...)
	}
	s.mu.Unlock()

	if i < 0 {
		response.Error(w, r, logger, errors.NotFoundf("planet %s not found", id))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
