package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorsUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Selectors
	}{
		{"absent", `{}`, nil},
		{"null", `{"plugins":null}`, nil},
		{"scalar", `{"plugins":"akismet/akismet.php"}`, Selectors{"akismet/akismet.php"}},
		{"empty scalar", `{"plugins":""}`, nil},
		{"list", `{"plugins":["a.php","b.php"]}`, Selectors{"a.php", "b.php"}},
		{"list drops empty", `{"plugins":["","b.php"]}`, Selectors{"b.php"}},
		{"empty list", `{"plugins":[]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdatePluginsRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Plugins)
		})
	}
}

func TestSelectorsUnmarshalRejectsNumbers(t *testing.T) {
	var req UpdateThemesRequest
	assert.Error(t, json.Unmarshal([]byte(`{"themes":[1,2]}`), &req))
}

func TestUpdateInventoryWireShape(t *testing.T) {
	b, err := json.Marshal(UpdateInventory{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"core":false,"plugins":[],"themes":[]}`, string(b))

	inv := UpdateInventory{
		Core:    &CoreUpdate{Version: "6.4", CurrentVersion: "6.3", Response: "upgrade"},
		Plugins: []PluginUpdate{{File: "p1/p1.php", Name: "P1", Version: "1.0", NewVersion: "1.1"}},
	}
	b, err = json.Marshal(inv)
	require.NoError(t, err)

	var back UpdateInventory
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, inv.Core, back.Core)
	assert.Equal(t, inv.Plugins, back.Plugins)
	assert.Empty(t, back.Themes)
	assert.False(t, back.Empty())
}

func TestUpdateInventoryAcceptsNullCore(t *testing.T) {
	var inv UpdateInventory
	require.NoError(t, json.Unmarshal([]byte(`{"core":null,"plugins":[],"themes":[]}`), &inv))
	assert.Nil(t, inv.Core)
	assert.True(t, inv.Empty())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("plugins")
	require.NoError(t, err)
	assert.Equal(t, CategoryPlugins, c)
	assert.Equal(t, "plugin", c.Singular())

	_, err = ParseCategory("translations")
	assert.Error(t, err)
}
