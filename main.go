package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	contentDirFlag string
	noColor        bool
	cfg            *Config
	version        = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "pressctl",
	Short: "Bilingual blog publishing pipeline",
	Long: `pressctl manages the editorial pipeline for a multi-language blog:
articles move from drafts through a queue (optionally with a scheduled
date) into the published store, one directory tree per language.

Example usage:
  pressctl status              # Queue and buffer health per language
  pressctl queue add post.md en
  pressctl schedule auto fr    # Assign collision-free publish dates
  pressctl publish             # Daily publish run for all languages
  pressctl preview 14          # Content runway for the next two weeks`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .pressctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&contentDirFlag, "content-dir", "", "content root directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// initConfig loads configuration once per invocation. Components receive
// the loaded value explicitly; nothing reads it ambiently after this point.
func initConfig() error {
	var err error
	cfg, err = LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if contentDirFlag != "" {
		cfg.ContentDir = contentDirFlag
	}
	if noColor {
		cfg.Output.Colors = false
	}
	return nil
}

// newPipeline wires the store, queue manager, scheduler and publisher for
// one CLI invocation.
func newPipeline() (*Store, *QueueManager, *Scheduler, *Publisher) {
	store := NewStore(cfg.ContentDir)
	qm := NewQueueManager(store, cfg)
	sched := NewScheduler(qm, cfg)
	pub := NewPublisher(sched, cfg)
	return store, qm, sched, pub
}

func newPrinter() *Printer {
	return NewPrinter(cfg.Output.Colors)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
