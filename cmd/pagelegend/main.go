package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/macropower/pagelegend/internal/cli"
	"github.com/macropower/pagelegend/pkg/version"
)

func main() {
	info := version.GetInfo()

	err := fang.Execute(context.Background(), cli.NewRootCmd(),
		fang.WithVersion(info.Version),
		fang.WithCommit(info.Revision),
		fang.WithColorSchemeFunc(cli.ColorSchemeFunc),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		if _, werr := fmt.Fprintln(os.Stderr); werr != nil {
			panic(werr)
		}

		os.Exit(1)
	}
}
