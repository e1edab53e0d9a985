package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/bookstore/internal/config"
	"github.com/deppfellow/bookstore/internal/database"
	"github.com/deppfellow/bookstore/internal/handler"
	"github.com/deppfellow/bookstore/internal/logger"
	"github.com/deppfellow/bookstore/internal/repository"
	"github.com/deppfellow/bookstore/internal/router"
	"github.com/deppfellow/bookstore/internal/server"
	"github.com/deppfellow/bookstore/internal/service"
	"github.com/rs/zerolog"
)

const usage = `Usage: bookstore [command]

Commands:
  serve                 migrate to the latest schema and run the HTTP server (default)
  migrate [-to VERSION] migrate the schema to VERSION, or to the latest when omitted
`

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	command := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		err = serve(cfg, &log, loggerService)
	case "migrate":
		err = migrate(cfg, &log, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("command failed")
		loggerService.Shutdown()
		os.Exit(1)
	}
}

func migrate(cfg *config.Config, log *zerolog.Logger, args []string) error {
	target, err := parseMigrateArgs(args)
	if err != nil {
		return err
	}

	return database.Migrate(context.Background(), log, cfg, target)
}

// parseMigrateArgs reads the migrate target version. -1 means latest;
// anything else must be a version between 0 and math.MaxInt32.
func parseMigrateArgs(args []string) (int32, error) {
	flags := flag.NewFlagSet("migrate", flag.ContinueOnError)
	to := flags.Int64("to", -1, "target schema version, -1 for latest")
	if err := flags.Parse(args); err != nil {
		return 0, err
	}

	if flags.NArg() > 0 {
		return 0, fmt.Errorf("unexpected migrate arguments: %v", flags.Args())
	}

	if *to < -1 || *to > math.MaxInt32 {
		return 0, fmt.Errorf("migration version %d out of range, must be -1 or between 0 and %d", *to, math.MaxInt32)
	}

	return int32(*to), nil
}

func serve(cfg *config.Config, log *zerolog.Logger, loggerService *logger.LoggerService) error {
	if err := database.Migrate(context.Background(), log, cfg, -1); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
