package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/githubexplorer/internal/application"
)

func newAddCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <owner/name>",
		Short: "Look a repository up and append it to the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configFile, quietLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			return runAdd(ctx, a.explorer, args[0], cmd.OutOrStdout())
		},
	}
}

// errSubmitFailed is returned after the user message has been printed.
var errSubmitFailed = errors.New("repository was not added")

func runAdd(ctx context.Context, explorer *application.ExplorerService, input string, out io.Writer) error {
	form := explorer.Submit(ctx, application.SearchForm{Input: input})
	if form.HasError() {
		fmt.Fprintln(out, errorStyle.Render(form.Error))
		return errSubmitFailed
	}

	repos := explorer.Repositories()
	printRepository(out, repos[len(repos)-1])
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// quietLogger keeps startup chatter off the terminal unless something goes
// wrong.
func quietLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
