package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pagelegend/internal/cli"
)

//nolint:paralleltest // Uses t.Setenv.
func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		env  map[string]string
		want map[string]string
		args []string
	}{
		"defaults": {
			want: map[string]string{"log-level": "info", "anchor": "0", "width": "80", "watch": "false"},
		},
		"from environment": {
			env: map[string]string{
				"PAGELEGEND_LOG_LEVEL": "debug",
				"PAGELEGEND_ANCHOR":    "4",
				"PAGELEGEND_WATCH":     "true",
			},
			want: map[string]string{"log-level": "debug", "anchor": "4", "watch": "true"},
		},
		"arguments win": {
			env:  map[string]string{"PAGELEGEND_ANCHOR": "4", "PAGELEGEND_WIDTH": "120"},
			args: []string{"--anchor", "2"},
			want: map[string]string{"anchor": "2", "width": "120"},
		},
		"bad value keeps default": {
			env:  map[string]string{"PAGELEGEND_HEIGHT": "tall"},
			want: map[string]string{"height": "24"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cmd := cli.NewRootCmd()
			require.NoError(t, cmd.ParseFlags(tc.args))

			for flag, want := range tc.want {
				f := cmd.Flag(flag)
				require.NotNil(t, f, flag)
				assert.Equal(t, want, f.Value.String(), flag)
			}
		})
	}
}

func TestBindEnvVars_Usage(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	for flag, env := range map[string]string{
		"log-level":      "$PAGELEGEND_LOG_LEVEL",
		"config":         "$PAGELEGEND_CONFIG",
		"serve-mcp":      "$PAGELEGEND_SERVE_MCP",
		"trace-endpoint": "$PAGELEGEND_TRACE_ENDPOINT",
		"write-config":   "$PAGELEGEND_WRITE_CONFIG",
		"show-config":    "$PAGELEGEND_SHOW_CONFIG",
		"anchor":         "$PAGELEGEND_ANCHOR",
		"height":         "$PAGELEGEND_HEIGHT",
	} {
		// Persistent flags are only merged into Flags() on execute.
		f := cmd.Flag(flag)
		require.NotNil(t, f, flag)
		assert.Contains(t, f.Usage, env)
	}

	mcpCmd, _, err := cmd.Find([]string{"mcp"})
	require.NoError(t, err)

	addr := mcpCmd.Flags().Lookup("address")
	require.NotNil(t, addr)
	assert.Contains(t, addr.Usage, "$PAGELEGEND_ADDRESS")
}
