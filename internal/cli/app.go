package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"planets-client/internal/planet"
	"planets-client/internal/screens"
	"planets-client/internal/shared/errors"
	"planets-client/internal/shared/response"
)

// PlanetService is everything the front-end needs from the planet client.
type PlanetService interface {
	screens.PlanetLister
	screens.PlanetEditor
	Stats() planet.Stats
}

// App is the terminal front-end. It shows one screen at a time: the planet
// list, or the detail of one planet opened from it.
type App struct {
	planets PlanetService
	base    *slog.Logger
	logger  *slog.Logger
	reader  *bufio.Reader
	out     io.Writer
	prompt  bool

	list   *screens.ListScreen
	detail *screens.DetailScreen
}

// NewApp wires the front-end to a planet service. Prompts are printed only
// when interactive is set.
func NewApp(planets PlanetService, logger *slog.Logger, in io.Reader, out io.Writer, interactive bool) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		planets: planets,
		base:    logger,
		logger:  logger.With("component", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
		prompt:  interactive,
		list:    screens.NewListScreen(planets, logger),
	}
}

// Interactive reports whether f is a terminal.
func Interactive(f *os.File) bool {
	return isTerminal(int(f.Fd()))
}

// Run loads the list and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	a.logger.Info("Starting planets front-end", "interactive", a.prompt)
	if a.prompt {
		printlnFn(listHelp)
	}

	_ = a.Refresh(ctx)
	runREPL(ctx, a, a.status, a.reader, a.prompt)

	a.logger.Info("Planets front-end stopped")
	return nil
}

func (a *App) close() {
	if a.detail != nil {
		a.detail.Close()
		a.detail = nil
	}
	a.list.Close()
}

func (a *App) inDetail() bool {
	return a.detail != nil
}

func (a *App) status() string {
	if a.detail == nil {
		if a.list.Sorted() {
			return "planets (by moons)"
		}
		return "planets"
	}
	if a.detail.Editing() {
		return fmt.Sprintf("planets/%s (editing)", a.detail.ID())
	}
	return "planets/" + a.detail.ID().String()
}

// alert prints a failure. Results discarded by a closed or superseded
// screen are not failures the user needs to see.
func (a *App) alert(action string, err error) error {
	if stderrors.Is(err, screens.ErrStale) || stderrors.Is(err, screens.ErrClosed) {
		a.logger.Debug("Ignoring discarded result", "action", action, "error", err)
		return err
	}
	fmt.Fprintln(a.out, "! "+response.Message(action, err))
	return err
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.list.Load(ctx); err != nil {
		return a.alert("load the planets", err)
	}
	a.printList()
	return nil
}

func (a *App) ToggleSort(ctx context.Context) error {
	if err := a.list.ToggleSort(ctx); err != nil {
		return a.alert("reload the planets", err)
	}
	a.printList()
	return nil
}

// New walks the user through the creation form. A draft kept from a failed
// attempt is offered back: an empty answer keeps the staged value.
func (a *App) New(ctx context.Context) error {
	a.list.OpenForm()
	draft := a.list.Draft()

	fields := []struct {
		prompt  string
		current string
		set     func(string)
	}{
		{"Name", draft.Name, a.list.SetName},
		{"Description", draft.Description, a.list.SetDescription},
		{"Image URL", draft.Image, a.list.SetImage},
	}
	for _, f := range fields {
		prompt := f.prompt
		if f.current != "" {
			prompt = fmt.Sprintf("%s [%s]", f.prompt, f.current)
		}
		v, err := GetSimpleText(a.reader, prompt, a.out)
		if err != nil {
			a.list.CloseForm()
			return err
		}
		if v != "" {
			f.set(v)
		}
	}

	if len(draft.MoonNames) > 0 {
		fmt.Fprintf(a.out, "Staged moons: %s\n", strings.Join(draft.MoonNames, ", "))
	}
	moons, err := GetList(a.reader, "Moon names, one per line", a.out)
	if err != nil {
		a.list.CloseForm()
		return err
	}
	for _, m := range moons {
		_ = a.list.AddDraftMoon(m)
	}

	err = a.list.SubmitDraft(ctx)
	if stderrors.Is(err, screens.ErrRefresh) {
		fmt.Fprintln(a.out, "Planet created.")
		return a.alert("load the planets", err)
	}
	if err != nil {
		a.list.CloseForm()
		return a.alert("create the planet", err)
	}

	fmt.Fprintln(a.out, "Planet created.")
	a.printList()
	return nil
}

func (a *App) Open(ctx context.Context, id string) error {
	if a.detail != nil {
		a.detail.Close()
	}
	a.detail = screens.NewDetailScreen(planet.ID(id), a.planets, a.base)

	if err := a.detail.Load(ctx); err != nil {
		if errors.IsType(err, errors.ErrorTypeTransport) {
			fmt.Fprintln(a.out, "Planet could not be loaded. Type back to return to the list.")
		} else {
			fmt.Fprintln(a.out, "Planet not found. Type back to return to the list.")
		}
		return a.alert("load planet "+id, err)
	}
	a.printDetail()
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	s := a.planets.Stats()
	fmt.Fprintf(a.out, "Calls: %d, failures: %d (%.1f%%), average latency: %s\n",
		s.Calls, s.Failures, s.FailureRate(), s.AverageLatency())
	return nil
}

func (a *App) Edit(ctx context.Context) error {
	if err := a.detail.StartEdit(); err != nil {
		return a.alert("edit the planet", err)
	}
	fmt.Fprintln(a.out, "Editing. Use desc, addmoon and rmmoon, then save or cancel.")
	return nil
}

func (a *App) CancelEdit(ctx context.Context) error {
	a.detail.CancelEdit()
	a.printDetail()
	return nil
}

func (a *App) Describe(ctx context.Context, text string) error {
	if err := a.detail.SetDescription(text); err != nil {
		return a.alert("change the description", err)
	}
	a.printWorking()
	return nil
}

func (a *App) AddMoon(ctx context.Context, name string) error {
	if err := a.detail.AddMoon(name); err != nil {
		return a.alert("add the moon", err)
	}
	a.printWorking()
	return nil
}

func (a *App) RemoveMoon(ctx context.Context, name string) error {
	if err := a.detail.RemoveMoon(name); err != nil {
		return a.alert("remove the moon", err)
	}
	a.printWorking()
	return nil
}

func (a *App) Save(ctx context.Context) error {
	if err := a.detail.SubmitEdit(ctx); err != nil {
		return a.alert("update the planet", err)
	}
	fmt.Fprintln(a.out, "Planet updated.")
	a.printDetail()
	return nil
}

// Delete asks for confirmation, then deletes and returns to the list.
func (a *App) Delete(ctx context.Context) error {
	if err := a.detail.RequestDelete(); err != nil {
		return a.alert("delete the planet", err)
	}

	ok, err := Confirm(a.reader, "Delete this planet?", a.out)
	if err != nil || !ok {
		a.detail.CancelDelete()
		fmt.Fprintln(a.out, "Deletion cancelled.")
		return err
	}

	if err := a.detail.ConfirmDelete(ctx); err != nil {
		return a.alert("delete the planet", err)
	}

	fmt.Fprintln(a.out, "Planet deleted.")
	return a.Back(ctx)
}

// Back unmounts the detail screen and reloads the list.
func (a *App) Back(ctx context.Context) error {
	if a.detail != nil {
		a.detail.Close()
		a.detail = nil
	}
	return a.Refresh(ctx)
}

func (a *App) printList() {
	planets := a.list.Planets()
	if len(planets) == 0 {
		fmt.Fprintln(a.out, "No planets.")
		return
	}
	for _, p := range planets {
		fmt.Fprintf(a.out, "%-6s %-20s %d moons\n", p.ID, p.Name, p.Moons)
	}
}

func (a *App) printDetail() {
	p := a.detail.Planet()
	if p == nil {
		return
	}
	printPlanet(a.out, *p)
}

func (a *App) printWorking() {
	fmt.Fprintln(a.out, "(unsaved)")
	printPlanet(a.out, a.detail.Working())
}

func printPlanet(w io.Writer, p planet.Planet) {
	fmt.Fprintf(w, "%s (#%s)\n", p.Name, p.ID)
	fmt.Fprintf(w, "  Description: %s\n", p.Description)
	fmt.Fprintf(w, "  Image: %s\n", p.Image)
	if len(p.MoonNames) == 0 {
		fmt.Fprintf(w, "  Moons: %d\n", p.Moons)
		return
	}
	fmt.Fprintf(w, "  Moons: %d (%s)\n", p.Moons, strings.Join(p.MoonNames, ", "))
}
