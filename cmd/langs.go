package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/dennischat/internal/langfiles"
	"github.com/ziadkadry99/dennischat/internal/progress"
)

var (
	langsDir     string
	langsIndex   string
	langsDefault string
	langsPattern string
	langsDryRun  bool
)

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "Maintain the language dictionaries",
}

var langsNormalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Align every dictionary with the default language",
	Long: `Rewrites each lang/<code>.json so it holds exactly the keys the page
needs. Keys come from the data-i18n attributes of --index, or from the
default dictionary when no index is given. Missing keys are filled from
the default language and originals are backed up to _backup_<timestamp>.`,
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

		dir := langsDir
		if dir == "" {
			dir = cfg.Server.LangDir
		}
		if dir == "" {
			dir = "lang"
		}
		def := langsDefault
		if def == "" {
			def = cfg.Widget.DefaultLang
		}

		res, err := langfiles.Normalize(langfiles.Options{
			Dir:       dir,
			Default:   def,
			IndexHTML: langsIndex,
			Pattern:   langsPattern,
			DryRun:    langsDryRun,
			Reporter:  progress.NewReporter("Normalizing"),
			Logger:    logger,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d language files, %d required keys\n", len(res.Files), res.RequiredKeys)
		for _, f := range res.Files {
			if len(f.Filled) > 0 {
				fmt.Fprintf(out, "  %s: filled %d missing keys from %s, dropped %d\n", f.Name, len(f.Filled), def, f.Dropped)
			} else {
				fmt.Fprintf(out, "  %s: complete, dropped %d\n", f.Name, f.Dropped)
			}
			if verbose {
				for _, k := range f.Filled {
					fmt.Fprintf(out, "    + %s\n", k)
				}
			}
		}
		if res.BackupDir != "" {
			fmt.Fprintf(out, "Backups saved in %s\n", res.BackupDir)
		} else {
			fmt.Fprintln(out, "Dry run: nothing written")
		}
		return nil
	},
}

func init() {
	langsNormalizeCmd.Flags().StringVar(&langsDir, "dir", "", "language directory (defaults to server.lang_dir or ./lang)")
	langsNormalizeCmd.Flags().StringVar(&langsIndex, "index", "", "HTML page whose data-i18n attributes list the required keys")
	langsNormalizeCmd.Flags().StringVar(&langsDefault, "default", "", "fallback language (defaults to widget.default_lang)")
	langsNormalizeCmd.Flags().StringVar(&langsPattern, "pattern", langfiles.DefaultPattern, "glob selecting dictionaries inside the directory")
	langsNormalizeCmd.Flags().BoolVar(&langsDryRun, "dry-run", false, "report changes without writing")
	langsCmd.AddCommand(langsNormalizeCmd)
	rootCmd.AddCommand(langsCmd)
}
