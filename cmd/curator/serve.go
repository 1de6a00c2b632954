package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/curator"
	"curator/internal/httpapi"
	"curator/internal/ollama"
	"curator/internal/scanner"
	"curator/internal/store"
)

// cliOptions carries flag values; empty or negative sentinels mean "unset"
// so file and environment values survive.
type cliOptions struct {
	configFile       string
	envFile          string
	addr             string
	dbPath           string
	ollamaURL        string
	descriptionModel string
	embeddingModel   string
	scanIntervalSec  int
	watch            bool
	logLevel         string
}

// resolve layers configuration: defaults, then the config file, then
// CURATOR_* environment variables (after loading the env file), then flags.
func (o *cliOptions) resolve() (config.Config, error) {
	cfg := config.Defaults()
	if o.configFile != "" {
		fileCfg, err := config.Load(o.configFile)
		if err != nil {
			return cfg, err
		}
		cfg = config.Merge(cfg, fileCfg)
	}
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return cfg, err
	}
	cfg = config.FromEnv(cfg)

	over := config.Config{
		Addr:             o.addr,
		DBPath:           o.dbPath,
		OllamaURL:        o.ollamaURL,
		DescriptionModel: o.descriptionModel,
		EmbeddingModel:   o.embeddingModel,
		LogLevel:         o.logLevel,
		Watch:            o.watch,
	}
	if o.scanIntervalSec >= 0 {
		over.ScanIntervalSec = o.scanIntervalSec
		if o.scanIntervalSec == 0 {
			cfg.ScanIntervalSec = 0
		}
	}
	return config.Merge(cfg, over), nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}

// buildCurator opens the store and wires the Ollama client into a Curator.
// The caller must Close the returned store.
func buildCurator(ctx context.Context, cfg config.Config, log zerolog.Logger) (*curator.Curator, *store.Store, error) {
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	llm := ollama.New(cfg.OllamaURL, nil)
	c := curator.New(st, llm, curator.Config{
		DescriptionModel: cfg.DescriptionModel,
		EmbeddingModel:   cfg.EmbeddingModel,
		ScanInterval:     time.Duration(cfg.ScanIntervalSec) * time.Second,
	}, log)
	return c, st, nil
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			c, st, err := buildCurator(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			var watch *scanner.Watcher
			if cfg.Watch {
				watch, err = scanner.NewWatcher(log, 0)
				if err != nil {
					return err
				}
				defer watch.Close()
				if err := c.WatchLocations(ctx, watch); err != nil {
					return err
				}
			}
			go c.RunScheduler(ctx, watch)

			httpapi.SetLogger(log)
			httpapi.SetBaseContext(ctx)
			httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
			httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins)

			srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(c)}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("ollama", cfg.OllamaURL).Msg("curator listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
			}
			cancel()
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			if err := srv.Shutdown(shutCtx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown incomplete")
			}
			return nil
		},
	}
}

func newScanCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan all registered locations once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)
			ctx := cmd.Context()
			c, st, err := buildCurator(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()
			return c.RunScan(ctx)
		},
	}
}

func newDescribeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Describe and embed pending images once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)
			ctx := cmd.Context()
			c, st, err := buildCurator(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()
			return c.RunDescribe(ctx)
		},
	}
}
