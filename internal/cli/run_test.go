package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pagelegend/internal/cli"
)

const legendYAML = `apiVersion: pagelegend.macropower.dev/v1beta1
kind: Legend
id: temp
options:
  itemGap: 1
  pageButtonItemGap: 1
  animation: false
pieces:
  - {label: aaa, color: "#ff0000"}
  - {label: bbb, color: "#ff0000"}
  - {label: ccc, color: "#ff0000"}
  - {label: ddd, color: "#ff0000"}
  - {label: eee, color: "#ff0000"}
`

func writeLegend(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "legend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestRun_Static(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args []string
		want string
	}{
		"first page": {
			want: "■ aaa ■ bbb  ◀ 1/3 ▶",
		},
		"anchor flag": {
			args: []string{"--anchor", "4"},
			want: "3/3",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeLegend(t, dir, legendYAML)

			var out, errOut bytes.Buffer

			cmd := cli.NewRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs(append([]string{
				dir,
				"--config", filepath.Join(dir, "config.yaml"),
				"--width", "20",
				"--height", "1",
			}, tc.args...))

			require.NoError(t, cmd.ExecuteContext(t.Context()))
			assert.Contains(t, ansi.Strip(out.String()), tc.want)
		})
	}
}

func TestRun_WriteConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "nested", "config.yaml")

	cmd := cli.NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", configPath, "--write-config"})

	require.NoError(t, cmd.ExecuteContext(t.Context()))
	assert.FileExists(t, configPath)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		legend string
		errIs  error
	}{
		"no legend file": {
			errIs: cli.ErrNoLegend,
		},
		"invalid legend": {
			legend: "apiVersion: pagelegend.macropower.dev/v1beta1\nkind: Legend\npieces: []\n",
		},
		"unknown option": {
			legend: "apiVersion: pagelegend.macropower.dev/v1beta1\nkind: Legend\nid: x\noptions:\n  nope: 1\npieces: []\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tc.legend != "" {
				writeLegend(t, dir, tc.legend)
			}

			cmd := cli.NewRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{dir, "--config", filepath.Join(dir, "config.yaml")})

			err := cmd.ExecuteContext(t.Context())
			require.Error(t, err)

			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
			}
		})
	}
}
