package configpaths_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidoo/vpad/internal/configpaths"
)

func TestConfigCandidatePaths_UserPathFirst(t *testing.T) {
	type testCase struct {
		name     string
		userPath string
		pick     func(j, y, t []string) []string
	}
	testCases := []testCase{
		{name: "JSON", userPath: "/tmp/my.json", pick: func(j, _, _ []string) []string { return j }},
		{name: "YAML", userPath: "/tmp/my.yml", pick: func(_, y, _ []string) []string { return y }},
		{name: "TOML", userPath: "/tmp/my.toml", pick: func(_, _, t []string) []string { return t }},
		{name: "No extension", userPath: "/tmp/my", pick: func(j, _, _ []string) []string { return j }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			j, y, tm := configpaths.ConfigCandidatePaths(tc.userPath)
			paths := tc.pick(j, y, tm)
			require.NotEmpty(t, paths)
			assert.Equal(t, tc.userPath, paths[0])
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG is not used on windows")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vpad"), got)

	p, err := configpaths.DefaultNamedConfigPath("serve", "yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vpad", "serve.yaml"), p)

	_, _, tm := configpaths.ConfigCandidatePaths("")
	assert.Contains(t, tm, filepath.Join(dir, "vpad", "config.toml"))
}
