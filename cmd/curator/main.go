package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "curator:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "curator",
		Short:         "Local image catalog with Ollama-backed descriptions and search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Config file (.yaml, .json or .toml)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "Env file loaded before reading CURATOR_* variables")
	pf.StringVar(&opts.addr, "addr", "", "HTTP listen address, e.g. :8000")
	pf.StringVar(&opts.dbPath, "db", "", "Path to the SQLite catalog database")
	pf.StringVar(&opts.ollamaURL, "ollama-url", "", "Base URL of the Ollama runtime")
	pf.StringVar(&opts.descriptionModel, "description-model", "", "Vision model used to describe images")
	pf.StringVar(&opts.embeddingModel, "embedding-model", "", "Model used to embed descriptions and queries")
	pf.IntVar(&opts.scanIntervalSec, "scan-interval", -1, "Seconds between scheduled runs (0 disables)")
	pf.BoolVar(&opts.watch, "watch", false, "Watch location directories for new files")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")

	root.AddCommand(newServeCmd(opts), newScanCmd(opts), newDescribeCmd(opts))
	return root
}
