package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/jsontp/internal/config"
	"github.com/danmuck/jsontp/internal/logging"
	"github.com/danmuck/jsontp/internal/server"
	"github.com/danmuck/jsontp/internal/static"
	"github.com/rs/zerolog/log"
)

func main() {
	path := flag.String("config", "", "path to jsontpd.toml (defaults apply when empty)")
	flag.Parse()

	if err := run(*path); err != nil {
		fmt.Fprintf(os.Stderr, "jsontpd: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	logging.ConfigureWithFile(logging.ProfileRuntime, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().Strs("routes", svc.Routes()).Msg("jsontpd routes")
	return svc.ListenAndServe(ctx)
}

// newService builds the daemon's service: built-in routes, then static
// resources, which may shadow them.
func newService(ctx context.Context, cfg config.Config) (*server.Service, error) {
	svc := server.NewServiceWithConfig(cfg.Service)
	if err := registerBuiltins(svc); err != nil {
		return nil, err
	}
	if cfg.StaticFile == "" {
		return svc, nil
	}
	table := static.NewTable(svc.Router())
	if err := table.MountFile(cfg.StaticFile); err != nil {
		return nil, err
	}
	if cfg.WatchStatic {
		if err := static.Watch(ctx, cfg.StaticFile, table); err != nil {
			return nil, fmt.Errorf("watch %s: %w", cfg.StaticFile, err)
		}
	}
	return svc, nil
}
