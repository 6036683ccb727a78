package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/dennischat/internal/db"
	"github.com/ziadkadry99/dennischat/internal/i18n"
	"github.com/ziadkadry99/dennischat/internal/prefs"
	"github.com/ziadkadry99/dennischat/internal/tui"
	"github.com/ziadkadry99/dennischat/internal/widget"
)

var (
	chatLocal      bool
	chatLang       string
	chatNoMarkdown bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat widget in the terminal",
	Long: `Opens the chat widget as a terminal UI. Press enter to open the panel,
esc to close it, ctrl+l to switch language and ctrl+c to quit. The chosen
language is remembered between runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closer, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer closer.Close()

		database, err := db.Open(filepath.Join(cfg.DataDir, "dennischat.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store, err := newDictionaryStore(cfg)
		if err != nil {
			return err
		}
		resolver := i18n.New(i18n.Options{
			Store:       store,
			Preferences: prefs.NewStore(database),
			Supported:   cfg.Widget.SupportedLangs,
			Default:     cfg.Widget.DefaultLang,
			PageLang:    cfg.Widget.PageLang,
			Logger:      logger,
		})
		// --lang pins the session without touching the remembered choice.
		resolver.SetOverride(chatLang)

		// The controller only calls the view from Run, which starts after
		// the program exists.
		var program *tea.Program
		view := tui.NewView(tui.SendFunc(func(msg tea.Msg) { program.Send(msg) }))

		ctrl := widget.New(widget.Options{
			View:            view,
			Resolver:        resolver,
			Source:          newReplySource(cfg, chatLocal),
			Cadence:         cfg.Widget.TypingCadence,
			StreamThreshold: cfg.Widget.StreamThreshold,
			CloseDelay:      cfg.Widget.CloseDelay,
			Logger:          logger,
		})

		program = tea.NewProgram(tui.New(tui.Options{
			Controller: ctrl,
			Languages:  resolver.Supported(),
			Markdown:   !chatNoMarkdown,
		}), tea.WithAltScreen())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := ctrl.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("widget controller stopped")
			}
		}()

		_, err = program.Run()
		return err
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatLocal, "local", false, "answer with canned replies instead of calling the endpoint")
	chatCmd.Flags().StringVar(&chatLang, "lang", "", "language for this session only; the remembered one is left as is")
	chatCmd.Flags().BoolVar(&chatNoMarkdown, "no-markdown", false, "show replies as plain text")
	rootCmd.AddCommand(chatCmd)
}
