package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/openrecipes/ingredient-panel/config"
	"github.com/openrecipes/ingredient-panel/internal/app"
	"github.com/openrecipes/ingredient-panel/internal/tui"
	"github.com/openrecipes/ingredient-panel/internal/usecase"
	"github.com/openrecipes/ingredient-panel/internal/view"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		plain      bool
		export     string
	)

	cmd := &cobra.Command{
		Use:           "panel",
		Short:         "Show the ingredient panel in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			once := plain || export != ""

			logOut := cmd.ErrOrStderr()
			if !once {
				// keep log lines off the TUI
				logFile, err := os.OpenFile("panel.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer logFile.Close()
				logOut = logFile
			}
			if err := app.SetupLogger(cfg.Log, logOut); err != nil {
				return err
			}

			ctx := cmd.Context()
			tokens, err := app.NewTokenCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer tokens.Close()

			panel := usecase.NewPanel(app.NewSearchClient(cfg, tokens))
			defer panel.Unmount()

			if once {
				return runOnce(ctx, cmd, panel, export)
			}

			_, err = tea.NewProgram(tui.NewModel(ctx, panel), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a config file")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the settled panel once instead of running the TUI")
	cmd.Flags().StringVar(&export, "export", "", "write the listed ingredients to an xlsx file")

	return cmd
}

func runOnce(ctx context.Context, cmd *cobra.Command, panel *usecase.Panel, export string) error {
	state := panel.LoadIngredients(ctx)
	if cause := panel.Cause(); cause != nil {
		log.Error().Err(cause).Msg("panel load failed")
	}

	fmt.Fprint(cmd.OutOrStdout(), view.RenderText(state, ""))

	if export == "" {
		return nil
	}
	f, err := os.Create(export)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer f.Close()
	if err := view.WriteWorkbook(f, state); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d ingredients to %s\n", len(state.Ingredients), export)
	return nil
}
