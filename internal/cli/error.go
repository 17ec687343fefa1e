package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
)

// Prefixes of cobra and pflag errors caused by bad arguments.
// Cobra has no typed usage errors: https://github.com/spf13/cobra/pull/2266
var usageErrorPrefixes = []string{
	"accepts at most",
	"flag needs an argument:",
	"invalid argument",
	"unknown command",
	"unknown flag:",
	"unknown shorthand flag:",
}

// ErrorHandler prints err in fang's style, followed by a hint when the error
// is one the user can fix from the command line.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	var b strings.Builder

	b.WriteString(styles.ErrorHeader.String() + "\n")
	b.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(err.Error()) + "\n\n")

	if flag, rest := errorHint(err); flag != "" {
		text := styles.ErrorText.UnsetWidth()
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
			text.Render("Try"),
			styles.Program.Flag.Render(flag),
			text.UnsetMargins().UnsetTransform().PaddingLeft(1).Render(rest),
		) + "\n\n")
	}

	mustN(io.WriteString(w, b.String()))
}

// errorHint returns a flag to suggest for err, and the text that follows it.
func errorHint(err error) (string, string) {
	switch {
	case errors.Is(err, ErrNoLegend):
		return "--help", "to see where legend files are searched."
	case isUsageError(err):
		return "--help", "for usage."
	}

	return "", ""
}

func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range usageErrorPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func mustN(_ int, err error) {
	if err != nil {
		panic(err)
	}
}
