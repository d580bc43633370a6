package planet

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"planets-client/internal/shared/errors"
)

// ID is the opaque identifier assigned by the remote service. It accepts
// both JSON strings and JSON numbers and always encodes as a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("planet id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type Planet struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Moons       int      `json:"moons"`
	MoonNames   []string `json:"moon_names"`
}

func (p *Planet) UnmarshalJSON(data []byte) error {
	type alias Planet
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.MoonNames == nil {
		a.MoonNames = []string{}
	}
	*p = Planet(a)
	return nil
}

// Clone returns a deep copy, so a working copy never shares its moon list
// with the copy it was taken from.
func (p Planet) Clone() Planet {
	p.MoonNames = slices.Clone(p.MoonNames)
	if p.MoonNames == nil {
		p.MoonNames = []string{}
	}
	return p
}

// AddMoon appends a trimmed moon name and recomputes Moons. Blank names are
// ignored and reported as false.
func (p *Planet) AddMoon(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	p.SetMoonNames(append(slices.Clone(p.MoonNames), name))
	return true
}

// RemoveMoon drops every moon called name and recomputes Moons.
// It reports whether anything was removed.
func (p *Planet) RemoveMoon(name string) bool {
	kept := slices.DeleteFunc(slices.Clone(p.MoonNames), func(m string) bool {
		return m == name
	})
	removed := len(kept) != len(p.MoonNames)
	p.SetMoonNames(kept)
	return removed
}

// SetMoonNames replaces the moon list and keeps Moons equal to its length.
func (p *Planet) SetMoonNames(names []string) {
	if names == nil {
		names = []string{}
	}
	p.MoonNames = names
	p.Moons = len(names)
}

// Validate checks the shape a planet must have before it is persisted.
func (p Planet) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.Validation("planet name cannot be empty")
	}
	if p.Moons != len(p.MoonNames) {
		return errors.Validationf("planet %q has moons=%d but %d moon names", p.Name, p.Moons, len(p.MoonNames))
	}
	return nil
}

// NewPlanet is the body of a create request.
type NewPlanet struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Moons       int      `json:"moons"`
	MoonNames   []string `json:"moon_names"`
}

// AddMoon stages a moon on a draft with the same rules as Planet.AddMoon.
func (n *NewPlanet) AddMoon(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	n.MoonNames = append(slices.Clone(n.MoonNames), name)
	n.Moons = len(n.MoonNames)
	return true
}

// Complete reports whether every field the list screen requires is set.
func (n NewPlanet) Complete() bool {
	return n.Name != "" && n.Description != "" && n.Image != ""
}

// Update is the body of an update request. Description and MoonNames are
// always sent; the rest only when set.
type Update struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Moons       *int     `json:"moons,omitempty"`
	MoonNames   []string `json:"moon_names"`
}

// UpdateFrom builds a full update from a working copy.
func UpdateFrom(p Planet) Update {
	moons := len(p.MoonNames)
	names := slices.Clone(p.MoonNames)
	if names == nil {
		names = []string{}
	}
	return Update{
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Moons:       &moons,
		MoonNames:   names,
	}
}

// SortByMoonsDesc orders planets by moon count, most moons first. Ties keep
// their relative order.
func SortByMoonsDesc(planets []Planet) {
	slices.SortStableFunc(planets, func(a, b Planet) int {
		return cmp.Compare(b.Moons, a.Moons)
	})
}
