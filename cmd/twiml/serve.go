package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	httpadapter "github.com/mulesoft-labs/twiml/internal/adapters/http"
	"github.com/mulesoft-labs/twiml/internal/config"
	"github.com/mulesoft-labs/twiml/internal/flow"
	"github.com/mulesoft-labs/twiml/internal/logging"
	"github.com/mulesoft-labs/twiml/internal/presentation/tui"
	"github.com/mulesoft-labs/twiml/pkg/adapters/memory"
	redisadapter "github.com/mulesoft-labs/twiml/pkg/adapters/redis"
	"github.com/mulesoft-labs/twiml/pkg/adapters/sqlite"
	"github.com/mulesoft-labs/twiml/pkg/persistence/middleware"
	"github.com/mulesoft-labs/twiml/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long: `Starts the webhook host, answering /voice and /callbacks routes for every
loaded flow and keeping call state in the configured store.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to a YAML config file")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload flows when their files change")
}

func runServe(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Explicit flags win over the config file.
	if cmd.Flags().Changed("flows") {
		cfg.FlowsDir, _ = cmd.Flags().GetString("flows")
	}
	if cmd.Flags().Changed("pattern") {
		cfg.FlowsGlob, _ = cmd.Flags().GetString("pattern")
	}
	if cmd.Flags().Changed("watch") {
		cfg.Watch, _ = cmd.Flags().GetBool("watch")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}

	tui.PrintBanner()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level, true)

	set, err := flow.LoadDir(cfg.FlowsDir, cfg.FlowsGlob)
	if err != nil {
		return err
	}

	store, locker, cleanup, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err = wrapStore(store, cfg)
	if err != nil {
		return err
	}

	srv, err := httpadapter.New(cfg.BaseURL, set, store,
		httpadapter.WithLogger(logger),
		httpadapter.WithLocker(locker),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Watch {
		changes, err := flow.Watch(ctx, cfg.FlowsDir)
		if err != nil {
			return err
		}
		go func() {
			for range changes {
				next, err := flow.LoadDir(cfg.FlowsDir, cfg.FlowsGlob)
				if err != nil {
					logger.Error("reload flows", "err", err)
					continue
				}
				srv.ReplaceFlows(next)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Handler(),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("server listening",
			"addr", httpServer.Addr,
			"base_url", cfg.BaseURL,
			"flows", set.Len(),
			"store", cfg.Store.Backend,
			"watch", cfg.Watch,
		)
		serverErrors <- httpServer.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		logger.Info("starting shutdown", "signal", sig.String())

		// Give outstanding webhooks a deadline for completion.
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			if err := httpServer.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		logger.Info("server stopped")
	}
	return nil
}

// buildStore picks the state backend from config. The cleanup closes whatever
// the backend holds open.
func buildStore(cfg *config.Config) (ports.CallStore, ports.CallLocker, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, nil, fmt.Errorf("redis at %s: %w", cfg.Store.RedisAddr, err)
		}
		store := redisadapter.NewFromClient(client, redisadapter.WithTTL(cfg.Store.TTL.Std()))
		locker := redisadapter.NewLocker(client, "twiml:call:")
		return store, locker, func() { store.Close() }, nil

	case "sqlite":
		store, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		// SQLite serves one node; an in-process lock covers it.
		return store, memory.NewLocker(), func() { store.Close() }, nil

	default:
		return memory.NewStore(), memory.NewLocker(), func() {}, nil
	}
}

// wrapStore layers the configured persistence middleware over the backend.
// Masking runs before encryption on the write path, so the ciphertext never
// carries what the mask was meant to remove.
func wrapStore(store ports.CallStore, cfg *config.Config) (ports.CallStore, error) {
	if cfg.Store.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.Store.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("decode encryption key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
	}
	if len(cfg.Store.Mask) > 0 {
		store = middleware.NewPIIMiddleware(cfg.Store.Mask)(store)
	}
	return store, nil
}
