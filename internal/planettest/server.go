// Package planettest provides an in-memory stand-in for the remote planet
// collection, served over httptest, for tests of the client and screens.
package planettest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"

	"planets-client/internal/planet"
)

// Request is what the fake service recorded about one incoming request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type Server struct {
	*httptest.Server

	mu              sync.Mutex
	planets         []planet.Planet
	nextID          int
	requests        []Request
	requiredHeaders map[string]string
	forced          map[string]int
	hold            chan struct{}
	logger          *slog.Logger
}

// NewServer starts a fake service seeded with planets. Seeds without an id
// get sequential ones.
func NewServer(seed ...planet.Planet) *Server {
	s := &Server{
		forced: make(map[string]int),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, p := range seed {
		s.insert(p)
	}

	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /planets", s.list)
	mux.HandleFunc("POST /planets", s.create)
	mux.HandleFunc("GET /planets/{id}", s.get)
	mux.HandleFunc("PUT /planets/{id}", s.update)
	mux.HandleFunc("DELETE /planets/{id}", s.delete)

	return s.intercept(mux)
}

// RequireHeaders makes the service answer 401 to requests missing any of
// the given headers, the way the tunnel proxy does.
func (s *Server) RequireHeaders(headers map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requiredHeaders = headers
}

// Force makes every request with the given method answer status.
// A status of 0 clears the override.
func (s *Server) Force(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.forced, method)
		return
	}
	s.forced[method] = status
}

// Hold blocks incoming requests until the returned release func is called.
func (s *Server) Hold() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.hold == ch {
				s.hold = nil
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Planets returns the current remote state in service order.
func (s *Server) Planets() []planet.Planet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]planet.Planet, len(s.planets))
	for i, p := range s.planets {
		out[i] = p.Clone()
	}
	return out
}

// Put inserts a planet behind the client's back and returns its id.
func (s *Server) Put(p planet.Planet) planet.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(p)
}

func (s *Server) insert(p planet.Planet) planet.ID {
	p = p.Clone()
	if p.ID == "" {
		s.nextID++
		p.ID = planet.ID(strconv.Itoa(s.nextID))
	} else if n, err := strconv.Atoi(string(p.ID)); err == nil && n > s.nextID {
		s.nextID = n
	}
	s.planets = append(s.planets, p)
	return p.ID
}

func (s *Server) indexOf(id planet.ID) int {
	return slices.IndexFunc(s.planets, func(p planet.Planet) bool {
		return p.ID == id
	})
}
