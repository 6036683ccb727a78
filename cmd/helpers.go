package cmd

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/dennischat/internal/config"
	"github.com/ziadkadry99/dennischat/internal/i18n"
	"github.com/ziadkadry99/dennischat/internal/logging"
	"github.com/ziadkadry99/dennischat/internal/reply"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `dennischat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the command's logger. --verbose forces debug output.
// When toFile is set, logs go to the configured log file (or one under the
// data directory) so they do not draw over a full-screen UI.
func newLogger(cfg *config.Config, toFile bool) (zerolog.Logger, io.Closer, error) {
	opts := logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: true}
	if verbose {
		opts.Level = "debug"
	}
	if toFile && opts.File == "" {
		opts.File = filepath.Join(cfg.DataDir, "dennischat.log")
	}
	return logging.New(opts)
}

// newDictionaryStore picks where dictionaries are loaded from: a remote
// base URL, a local directory, or the locales built into the binary.
func newDictionaryStore(cfg *config.Config) (i18n.Store, error) {
	switch {
	case cfg.Widget.LangBaseURL != "":
		store, err := i18n.NewHTTPStore(cfg.Widget.LangBaseURL, &http.Client{Timeout: cfg.Widget.ReplyTimeout})
		if err != nil {
			return nil, err
		}
		return store, nil
	case cfg.Widget.LangDir != "":
		return i18n.NewDirStore(cfg.Widget.LangDir), nil
	default:
		return i18n.NewFSStore(i18n.Locales()), nil
	}
}

// newReplySource returns the canned source when local replies are requested
// and the HTTP source otherwise.
func newReplySource(cfg *config.Config, local bool) reply.Source {
	if local || cfg.Widget.LocalReplies {
		return reply.NewLocalSource(nil)
	}
	opts := reply.HTTPOptions{
		Endpoint:  cfg.Widget.Endpoint,
		HintField: cfg.Widget.HintField,
		Timeout:   cfg.Widget.ReplyTimeout,
	}
	if cfg.Widget.SendUILang {
		opts.UILangField = reply.DefaultUILangField
	}
	return reply.NewHTTPSource(opts)
}
