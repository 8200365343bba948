package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vesselworks/graftplan/internal/server"
	"github.com/vesselworks/graftplan/pkg/session"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string // listen address
	redisAddr     string // Redis host:port; empty selects the in-memory store
	redisPassword string
	redisDB       int
	cleanupEvery  time.Duration // expired-session sweep interval (memory store)
}

// newServeCmd creates the serve command running the HTTP planning API.
// With --redis the session store is shared, so several instances can serve
// the same sessions; the default in-memory store is single-instance.
func newServeCmd() *cobra.Command {
	var flags catalogFlags
	opts := serveOpts{
		addr:         ":8080",
		cleanupEvery: time.Hour,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP planning API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts, &flags)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address (host:port) for a shared session store")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().DurationVar(&opts.cleanupEvery, "cleanup-interval", opts.cleanupEvery, "expired session sweep interval (memory store)")
	flags.register(cmd)

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts, flags *catalogFlags) error {
	logger := loggerFromContext(ctx)

	cat, err := flags.load()
	if err != nil {
		return err
	}

	var store session.Store
	if opts.redisAddr != "" {
		rs, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
		})
		if err != nil {
			return err
		}
		defer rs.Close()
		logger.Info("Using Redis session store", "addr", opts.redisAddr)
		store = rs
	} else {
		logger.Info("Using in-memory session store")
		store = session.NewMemoryStore()
		go cleanupLoop(ctx, store, opts.cleanupEvery, logger)
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(store, cat, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// cleanupLoop periodically sweeps expired sessions from stores without
// native expiry.
func cleanupLoop(ctx context.Context, store session.Store, every time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx); err != nil {
				logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
