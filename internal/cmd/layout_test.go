package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutInitAndCheck(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "layout."+format)
			require.NoError(t, (&LayoutInit{Format: format, Output: out, Density: 2}).Run())

			var buf bytes.Buffer
			require.NoError(t, (&LayoutCheck{Path: out}).Execute(&buf))
			s := buf.String()
			assert.Contains(t, s, "BUTTON_A")
			assert.Contains(t, s, "BUTTON_START")
			assert.Contains(t, s, "8way DPAD_LEFT/DPAD_UP/DPAD_RIGHT/DPAD_DOWN")
			assert.Contains(t, s, "200x200@300,300")
			assert.Contains(t, s, "4 components ok")
		})
	}
}

func TestLayoutCheckInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"components":[
		{"id":1,"kind":"button","name":"a","bounds":{"x":0,"y":0,"width":10,"height":10}},
		{"id":1,"kind":"button","name":"b","bounds":{"x":20,"y":0,"width":10,"height":10}}
	]}`), 0o644))
	assert.Error(t, (&LayoutCheck{Path: path}).Execute(&bytes.Buffer{}))
}
