package screens

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planets-client/internal/planet"
	"planets-client/internal/planettest"
	"planets-client/internal/shared/errors"
)

func moonPlanet(name string, moons ...string) planet.Planet {
	p := planet.Planet{Name: name, Description: name + " desc", Image: name + ".png"}
	p.SetMoonNames(moons)
	return p
}

// newListFixture serves planets with 1, 5 and 2 moons in that order.
func newListFixture(t *testing.T) (*planettest.Server, *ListScreen) {
	t.Helper()
	srv := planettest.NewServer(
		moonPlanet("A", "a1"),
		moonPlanet("B", "b1", "b2", "b3", "b4", "b5"),
		moonPlanet("C", "c1", "c2"),
	)
	t.Cleanup(srv.Close)

	s := NewListScreen(planet.NewClient(srv.URL, nil, nil), nil)
	t.Cleanup(s.Close)
	return srv, s
}

func moonCounts(planets []planet.Planet) []int {
	out := make([]int, len(planets))
	for i, p := range planets {
		out[i] = p.Moons
	}
	return out
}

func TestListScreen_Load(t *testing.T) {
	srv, s := newListFixture(t)

	require.NoError(t, s.Load(context.Background()))
	assert.False(t, s.Loading())

	if diff := cmp.Diff(srv.Planets(), s.Planets()); diff != "" {
		t.Errorf("list mismatch (-remote +screen):\n%s", diff)
	}
}

func TestListScreen_LoadFailureEmptiesList(t *testing.T) {
	srv, s := newListFixture(t)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.Len(t, s.Planets(), 3)

	srv.Force(http.MethodGet, http.StatusBadGateway)
	err := s.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, errors.StatusCode(err))
	assert.Empty(t, s.Planets())
	assert.False(t, s.Loading())
}

func TestListScreen_ToggleSort(t *testing.T) {
	srv, s := newListFixture(t)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, []int{1, 5, 2}, moonCounts(s.Planets()))

	require.NoError(t, s.ToggleSort(ctx))
	assert.True(t, s.Sorted())
	assert.Equal(t, []int{5, 2, 1}, moonCounts(s.Planets()))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/planets"), "sorting must not hit the network")

	require.NoError(t, s.ToggleSort(ctx))
	assert.False(t, s.Sorted())
	assert.Equal(t, []int{1, 5, 2}, moonCounts(s.Planets()))
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/planets"), "toggling back re-fetches once")
}

func TestListScreen_ToggleBackShowsRemoteChanges(t *testing.T) {
	srv, s := newListFixture(t)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.ToggleSort(ctx))

	srv.Put(moonPlanet("D"))
	require.NoError(t, s.ToggleSort(ctx))
	assert.Equal(t, []int{1, 5, 2, 0}, moonCounts(s.Planets()))
}

func TestListScreen_ToggleBackFailureStillFlips(t *testing.T) {
	srv, s := newListFixture(t)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.ToggleSort(ctx))

	srv.Force(http.MethodGet, http.StatusInternalServerError)
	require.Error(t, s.ToggleSort(ctx))
	assert.False(t, s.Sorted())
	assert.Empty(t, s.Planets())
}

func TestListScreen_RefreshWhileSortedKeepsOrder(t *testing.T) {
	_, s := newListFixture(t)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.ToggleSort(ctx))
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, []int{5, 2, 1}, moonCounts(s.Planets()))
}

func TestListScreen_SubmitDraftIncomplete(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *ListScreen)
	}{
		{name: "empty", setup: func(s *ListScreen) {}},
		{name: "no image", setup: func(s *ListScreen) {
			s.SetName("Venus")
			s.SetDescription("cloudy")
		}},
		{name: "no name", setup: func(s *ListScreen) {
			s.SetDescription("cloudy")
			s.SetImage("venus.png")
		}},
		{name: "no description", setup: func(s *ListScreen) {
			s.SetName("Venus")
			s.SetImage("venus.png")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, s := newListFixture(t)
			s.OpenForm()
			tt.setup(s)

			err := s.SubmitDraft(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
			assert.Empty(t, srv.Requests())
			assert.True(t, s.FormOpen())
		})
	}
}

func TestListScreen_SubmitDraftRequiresOpenForm(t *testing.T) {
	srv, s := newListFixture(t)
	s.SetName("Venus")
	s.SetDescription("cloudy")
	s.SetImage("venus.png")

	err := s.SubmitDraft(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Empty(t, srv.Requests())
}

func TestListScreen_SubmitDraft(t *testing.T) {
	srv, s := newListFixture(t)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	s.OpenForm()
	s.SetName("Venus")
	s.SetDescription("cloudy")
	s.SetImage("venus.png")
	require.NoError(t, s.AddDraftMoon("Fake"))
	assert.Error(t, s.AddDraftMoon("  "))

	draft := s.Draft()
	assert.Equal(t, 1, draft.Moons)
	assert.Equal(t, []string{"Fake"}, draft.MoonNames)

	require.NoError(t, s.SubmitDraft(ctx))

	assert.False(t, s.FormOpen())
	assert.Equal(t, planet.NewPlanet{}, s.Draft())
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/planets"))
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/planets"))

	planets := s.Planets()
	require.Len(t, planets, 4)
	assert.Equal(t, "Venus", planets[3].Name)
	assert.Equal(t, 1, planets[3].Moons)
}

func TestListScreen_SubmitDraftFailureKeepsDraft(t *testing.T) {
	srv, s := newListFixture(t)
	srv.Force(http.MethodPost, http.StatusServiceUnavailable)

	s.OpenForm()
	s.SetName("Venus")
	s.SetDescription("cloudy")
	s.SetImage("venus.png")

	err := s.SubmitDraft(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRejected))
	assert.True(t, s.FormOpen())
	assert.Equal(t, "Venus", s.Draft().Name)
	assert.Zero(t, srv.Count(http.MethodGet, "/planets"))
}

func TestListScreen_SubmitDraftReloadFailure(t *testing.T) {
	srv, s := newListFixture(t)
	srv.Force(http.MethodGet, http.StatusInternalServerError)

	s.OpenForm()
	s.SetName("Venus")
	s.SetDescription("cloudy")
	s.SetImage("venus.png")

	err := s.SubmitDraft(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefresh)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRejected))
	assert.Equal(t, http.StatusInternalServerError, errors.StatusCode(err))

	assert.Len(t, srv.Planets(), 4)
	assert.False(t, s.FormOpen())
	assert.Equal(t, planet.NewPlanet{}, s.Draft())
	assert.Empty(t, s.Planets())
}

func TestListScreen_CloseFormKeepsDraft(t *testing.T) {
	_, s := newListFixture(t)
	s.OpenForm()
	s.SetName("Venus")
	s.CloseForm()

	assert.False(t, s.FormOpen())
	assert.Equal(t, "Venus", s.Draft().Name)
}

func TestListScreen_CloseDiscardsInFlightLoad(t *testing.T) {
	srv, s := newListFixture(t)
	release := srv.Hold()
	defer release()

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()

	require.Eventually(t, func() bool {
		return srv.Count(http.MethodGet, "/planets") == 1
	}, time.Second, 5*time.Millisecond)
	assert.True(t, s.Loading())

	s.Close()
	release()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrStale)
	case <-time.After(2 * time.Second):
		t.Fatal("load did not return after close")
	}
	assert.Empty(t, s.Planets())
	assert.False(t, s.Loading())
	assert.ErrorIs(t, s.Load(context.Background()), ErrClosed)
}

// gatedLister answers each List call with the planets sent on its channel.
type gatedLister struct {
	calls chan chan []planet.Planet
}

func (g *gatedLister) List(ctx context.Context) ([]planet.Planet, error) {
	reply := make(chan []planet.Planet)
	g.calls <- reply
	return <-reply, nil
}

func (g *gatedLister) Create(ctx context.Context, p planet.NewPlanet) error {
	return nil
}

func TestListScreen_SupersededLoadIsDiscarded(t *testing.T) {
	lister := &gatedLister{calls: make(chan chan []planet.Planet)}
	s := NewListScreen(lister, nil)
	defer s.Close()

	first := make(chan error, 1)
	go func() { first <- s.Load(context.Background()) }()
	firstReply := <-lister.calls

	second := make(chan error, 1)
	go func() { second <- s.Load(context.Background()) }()
	secondReply := <-lister.calls

	secondReply <- []planet.Planet{moonPlanet("new")}
	require.NoError(t, <-second)

	firstReply <- []planet.Planet{moonPlanet("old")}
	assert.ErrorIs(t, <-first, ErrStale)

	planets := s.Planets()
	require.Len(t, planets, 1)
	assert.Equal(t, "new", planets[0].Name)
}
