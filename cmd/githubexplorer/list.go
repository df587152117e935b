package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
)

var (
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	indentStyle = lipgloss.NewStyle().PaddingLeft(2)
)

func newListCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the persisted repository list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configFile, quietLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.close()

			printRepositories(cmd.OutOrStdout(), a.explorer.Repositories())
			return nil
		},
	}
}

func printRepositories(out io.Writer, repos []model.RepositoryRecord) {
	if len(repos) == 0 {
		fmt.Fprintln(out, descStyle.Render("No repositories yet. Add one with: "+appName+" add owner/name"))
		return
	}

	for _, r := range repos {
		printRepository(out, r)
	}
	fmt.Fprintln(out, countStyle.Render(fmt.Sprintf("%d repositories", len(repos))))
}

func printRepository(out io.Writer, r model.RepositoryRecord) {
	fmt.Fprintln(out, nameStyle.Render(r.FullName))
	if r.Description != "" {
		fmt.Fprintln(out, indentStyle.Render(descStyle.Render(r.Description)))
	}
	fmt.Fprintln(out, indentStyle.Render(pathStyle.Render(r.DetailPath())))
}
