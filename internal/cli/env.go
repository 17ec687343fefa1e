package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var envNameReplacer = strings.NewReplacer("-", "_", ".", "_")

// bindEnvVars sets unset flags of cmd from PAGELEGEND_<FLAG_NAME> environment
// variables, and appends the variable name to each flag's usage. Command line
// arguments take precedence over the environment, which takes precedence
// over defaults.
//
// For example, "log-level" is read from $PAGELEGEND_LOG_LEVEL.
func bindEnvVars(cmd *cobra.Command) {
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		fs.VisitAll(bindFlagToEnv)
	}
}

func bindFlagToEnv(flag *pflag.Flag) {
	env := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, env) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, env)
	}

	if flag.Changed {
		return
	}

	val, ok := os.LookupEnv(env)
	if !ok {
		return
	}

	err := flag.Value.Set(val)
	if err != nil {
		// Keep the default.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", env),
			slog.String("value", val),
			slog.Any("error", err),
		)

		return
	}

	// Treat the value as user provided, e.g. for [pflag.FlagSet.Changed].
	flag.Changed = true
}

func flagToEnvName(flagName string) string {
	return strings.ToUpper(cmdName + "_" + envNameReplacer.Replace(flagName))
}
