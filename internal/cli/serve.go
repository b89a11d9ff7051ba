package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/devserver"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		backend string
		data    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local todo API for development",
		Long: `Serve the same /todos contract as the remote API, backed by a local file.

Point the client at it with --api-url http://localhost:8080.`,
		Args: usageArgs(cobra.NoArgs),
		// The server needs no owner or remote URL, so skip config validation.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(backend, data)
			if err != nil {
				return err
			}
			defer st.Close()

			logger := a.newLogger()
			srv := &http.Server{
				Addr:              addr,
				Handler:           devserver.New(st, logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr, "store", backend, "data", data)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "store", "json", "storage backend: json or sqlite")
	cmd.Flags().StringVar(&data, "data", "", "data file (default todos.json or todos.db)")
	return cmd
}

func openStore(backend, data string) (store.Store, error) {
	switch backend {
	case "json":
		if data == "" {
			data = jsonstore.DefaultFileName
		}
		return jsonstore.New(filepath.Clean(data)), nil
	case "sqlite":
		if data == "" {
			data = "todos.db"
		}
		st, err := sqlitestore.Open(filepath.Clean(data))
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, usageErr("serve: unknown store %q (want json or sqlite)", backend)
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			if err := a.cfg.Encode(a.out); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	}
}
