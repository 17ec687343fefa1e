package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macropower/pagelegend/pkg/log"
	"github.com/macropower/pagelegend/pkg/version"
)

const (
	cmdName = version.Name
	cmdDesc = `Scrollable, paginated chart legends for the terminal.`
	cmdLong = cmdDesc + `

Without a legend argument, or when the argument is a directory, the first
legend.yaml or .pagelegend.yaml found walking up from it is used.`
)

// RootArgs holds the flags shared by every subcommand.
type RootArgs struct {
	LogLevel  string
	LogFormat string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	enumFlag(cmd, &ra.LogLevel, "log-level", "info", "Log level", log.AllLevels)
	enumFlag(cmd, &ra.LogFormat, "log-format", "text", "Log format", log.AllFormats)
}

// enumFlag adds a persistent string flag that completes to one of values.
func enumFlag(cmd *cobra.Command, p *string, name, value, usage string, values []string) {
	cmd.PersistentFlags().StringVar(p, name, value,
		fmt.Sprintf("%s, one of: %s", usage, strings.Join(values, ", ")))

	err := cmd.RegisterFlagCompletionFunc(name,
		cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		panic(err)
	}
}

// NewRootCmd returns the pagelegend command. Without a subcommand it behaves
// like "run".
func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)
	runCmd := NewRunCmd(runArgs)

	cmd := &cobra.Command{
		Use:               cmdName + " [legend]",
		Short:             cmdDesc,
		Long:              cmdLong,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		ValidArgsFunction: runCompletion,
		Args:              runCmd.Args,
		RunE:              runCmd.RunE,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(runCmd, NewMCPCmd(NewMCPArgs(args)))

	bindEnvVars(cmd)

	return cmd
}

// setupLogging installs the default logger, writing to stderr until the
// UI replaces it.
func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		h, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(h))

		return nil
	}
}
