package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/dennischat/internal/langdetect"
	"github.com/ziadkadry99/dennischat/internal/reply"
	"github.com/ziadkadry99/dennischat/internal/stream"
)

var (
	askLocal  bool
	askNoType bool
	askUILang string
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message and print the reply",
	Long: `Sends a single message the way the widget does, with the detected
language as a hint, and types the reply out on stdout.`,
	Args: cobra.MinimumNArgs(1),
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

		text := strings.Join(args, " ")
		req := reply.Request{Text: text, UILang: askUILang}
		if hint := langdetect.Detect(text); hint != langdetect.Unknown {
			req.Hint = hint
		}
		logger.Debug().Str("hint", req.Hint).Msg("sending message")

		answer, err := newReplySource(cfg, askLocal).Send(cmd.Context(), req)
		if err != nil {
			if detail := reply.DetailOf(err); detail != "" {
				return fmt.Errorf("%s", detail)
			}
			return err
		}
		answer = strings.TrimSpace(answer)

		if askNoType {
			fmt.Println(answer)
			return nil
		}
		typeOut(answer, cfg.Widget.TypingCadence, cfg.Widget.StreamThreshold)
		return nil
	},
}

// typeOut reveals text on stdout with the same pacing as the widget.
func typeOut(text string, cadence time.Duration, threshold int) {
	ticks := make(chan uint64, 1)
	r := stream.New(stream.Options{
		Cadence:   cadence,
		Threshold: threshold,
		Schedule: func(gen uint64, d time.Duration) {
			time.AfterFunc(d, func() { ticks <- gen })
		},
	})

	printed := 0
	done := make(chan struct{})
	r.Render(stream.SlotFunc(func(shown string) {
		fmt.Fprint(os.Stdout, shown[printed:])
		printed = len(shown)
	}), text, func() { close(done) })

	for {
		select {
		case gen := <-ticks:
			r.Advance(gen)
		case <-done:
			fmt.Fprintln(os.Stdout)
			return
		}
	}
}

func init() {
	askCmd.Flags().BoolVar(&askLocal, "local", false, "answer with canned replies instead of calling the endpoint")
	askCmd.Flags().BoolVar(&askNoType, "no-typing", false, "print the reply at once")
	askCmd.Flags().StringVar(&askUILang, "ui-lang", "", "UI language to report when widget.send_ui_lang is set")
	rootCmd.AddCommand(askCmd)
}
