// Package ui implements the blockplan command line interface.
package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arveiter/blockplan/internal/block"
	"github.com/arveiter/blockplan/internal/config"
	"github.com/arveiter/blockplan/internal/planner"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo    block.Repository
	planner *planner.Planner
	config  *config.Config
	root    *cobra.Command
}

// NewApp creates a new CLI application with the given repository and config.
func NewApp(repo block.Repository, cfg *config.Config) *App {
	a := &App{
		repo:    repo,
		planner: planner.New(cfg, repo),
		config:  cfg,
	}

	a.root = &cobra.Command{
		Use:   "blockplan",
		Short: "A calendar planner for free-text notes",
		Long: `Blockplan turns free-text notes into scheduled time blocks.

It parses dates, durations, and times out of a note, splits the work
into steps, and places them into free slots on your day without
touching existing commitments.`,
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.adjustCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("blockplan %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
