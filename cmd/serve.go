package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/dennischat/internal/chat"
	"github.com/ziadkadry99/dennischat/internal/llm"
	"github.com/ziadkadry99/dennischat/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat backend",
	Long: `Starts the HTTP backend the widget talks to: POST /api/chat (and the
legacy /chat), a WebSocket at /ws/chat, /health, the language documents
under /lang and, optionally, a static site. Replies come from the
configured LLM provider, or from canned replies when none is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closer, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer closer.Close()

		provider, err := llm.NewProvider(llm.Settings{
			Provider: string(cfg.LLM.Provider),
			Model:    cfg.ModelOrDefault(),
			BaseURL:  cfg.LLM.BaseURL,
		})
		switch {
		case errors.Is(err, llm.ErrNoProvider):
			provider = nil
			logger.Info().Msg("no LLM provider configured, answering with canned replies")
		case err != nil:
			return fmt.Errorf("creating LLM provider: %w", err)
		default:
			provider = llm.NewRateLimitedProvider(provider, cfg.Server.RateLimitRPM)
		}

		svc := chat.NewService(provider, chat.Config{
			Model:        cfg.ModelOrDefault(),
			Temperature:  cfg.LLM.Temperature,
			MaxTokens:    cfg.LLM.MaxTokens,
			SystemPrompt: cfg.LLM.SystemPrompt,
			Timeout:      cfg.Server.UpstreamTimeout,
		}, nil, logger)

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		srv, err := server.New(server.Config{
			Port:           port,
			SiteDir:        cfg.Server.SiteDir,
			LangDir:        cfg.Server.LangDir,
			AllowAll:       cfg.Server.AllowAllOrigins,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}, svc, logger)
		if err != nil {
			return err
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info().
			Str("version", Version).
			Int("port", port).
			Str("provider", string(cfg.LLM.Provider)).
			Str("model", cfg.ModelOrDefault()).
			Msg("dennischat backend starting")

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
