package planet

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planets-client/internal/shared/errors"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "string", input: `"abc"`, want: "abc"},
		{name: "number", input: `3`, want: "3"},
		{name: "large number", input: `12345678901234567890`, want: "12345678901234567890"},
		{name: "null", input: `null`, want: ""},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestPlanet_UnmarshalJSON(t *testing.T) {
	var p Planet
	err := json.Unmarshal([]byte(`{"id":7,"name":"Mars","description":"red","image":"m.png","moons":0,"moon_names":null}`), &p)
	require.NoError(t, err)

	want := Planet{ID: "7", Name: "Mars", Description: "red", Image: "m.png", MoonNames: []string{}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("decoded planet mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanet_MoonEditsKeepCount(t *testing.T) {
	p := Planet{Name: "Jupiter", MoonNames: []string{}}

	assert.True(t, p.AddMoon(" Io "))
	assert.True(t, p.AddMoon("Europa"))
	assert.False(t, p.AddMoon("   "))
	assert.Equal(t, []string{"Io", "Europa"}, p.MoonNames)
	assert.Equal(t, 2, p.Moons)

	assert.True(t, p.RemoveMoon("Io"))
	assert.False(t, p.RemoveMoon("Ganymede"))
	assert.Equal(t, []string{"Europa"}, p.MoonNames)
	assert.Equal(t, 1, p.Moons)
	assert.NoError(t, p.Validate())
}

func TestPlanet_RemoveMoonDropsDuplicates(t *testing.T) {
	p := Planet{Name: "X"}
	p.SetMoonNames([]string{"A", "B", "A"})

	assert.True(t, p.RemoveMoon("A"))
	assert.Equal(t, []string{"B"}, p.MoonNames)
	assert.Equal(t, 1, p.Moons)
}

func TestPlanet_CloneIsDeep(t *testing.T) {
	orig := Planet{Name: "Earth", Moons: 1, MoonNames: []string{"Moon"}}
	c := orig.Clone()
	c.AddMoon("Second")
	c.MoonNames[0] = "Luna"

	assert.Equal(t, []string{"Moon"}, orig.MoonNames)
	assert.Equal(t, 1, orig.Moons)
}

func TestPlanet_Validate(t *testing.T) {
	err := Planet{Moons: 0, MoonNames: []string{}}.Validate()
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	err = Planet{Name: "Saturn", Moons: 3, MoonNames: []string{"Titan"}}.Validate()
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "moons=3")
}

func TestNewPlanet_Draft(t *testing.T) {
	var n NewPlanet
	assert.False(t, n.Complete())

	n.Name, n.Description = "Mars", "red"
	assert.False(t, n.Complete())

	n.Image = "mars.png"
	assert.True(t, n.Complete())

	assert.True(t, n.AddMoon("Phobos"))
	assert.False(t, n.AddMoon(""))
	assert.Equal(t, 1, n.Moons)
	assert.Equal(t, []string{"Phobos"}, n.MoonNames)
}

func TestUpdateFrom(t *testing.T) {
	p := Planet{ID: "1", Name: "Jupiter", Description: "gas", Image: "j.png", Moons: 5, MoonNames: []string{"Io"}}
	u := UpdateFrom(p)

	require.NotNil(t, u.Moons)
	assert.Equal(t, 1, *u.Moons)
	assert.Equal(t, []string{"Io"}, u.MoonNames)

	u.MoonNames[0] = "changed"
	assert.Equal(t, "Io", p.MoonNames[0])
}

func TestUpdate_MarshalOmitsUnsetFields(t *testing.T) {
	body, err := json.Marshal(Update{Description: "new", MoonNames: []string{"Io", "Europa"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"new","moon_names":["Io","Europa"]}`, string(body))

	body, err = json.Marshal(Update{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"","moon_names":null}`, string(body))
}

func TestSortByMoonsDesc(t *testing.T) {
	planets := []Planet{
		{ID: "a", Moons: 1},
		{ID: "b", Moons: 5},
		{ID: "c", Moons: 2},
		{ID: "d", Moons: 2},
	}
	SortByMoonsDesc(planets)

	var got []ID
	for _, p := range planets {
		got = append(got, p.ID)
	}
	assert.Equal(t, []ID{"b", "c", "d", "a"}, got)
}

func TestSortByMoonsDesc_ExtremeCounts(t *testing.T) {
	planets := []Planet{
		{ID: "min", Moons: math.MinInt},
		{ID: "zero", Moons: 0},
		{ID: "max", Moons: math.MaxInt},
		{ID: "one", Moons: 1},
	}
	SortByMoonsDesc(planets)

	var got []ID
	for _, p := range planets {
		got = append(got, p.ID)
	}
	assert.Equal(t, []ID{"max", "one", "zero", "min"}, got)
}
