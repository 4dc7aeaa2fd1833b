package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/salary-tax-compare/internal/compare"
	"github.com/iwvelando/salary-tax-compare/internal/config"
	"github.com/iwvelando/salary-tax-compare/internal/currency"
	"github.com/iwvelando/salary-tax-compare/internal/server"
	"github.com/iwvelando/salary-tax-compare/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	configOverride := flag.String("config", "", "path to tax configuration file (overrides server config)")
	addressOverride := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	_ = godotenv.Load()

	serverConf, err := server.LoadConfig(*serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
		os.Exit(1)
	}
	if *configOverride != "" {
		serverConf.ConfigFile = *configOverride
	}
	if *addressOverride != "" {
		serverConf.Address = *addressOverride
	}

	logger, err := config.NewLogger(serverConf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := config.NewStore(logger, serverConf.ConfigFile)
	if err != nil {
		logger.Fatal("failed to load tax configuration",
			zap.String("op", "main"),
			zap.String("path", serverConf.ConfigFile),
			zap.Error(err),
		)
	}
	for _, warning := range store.Current().ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	conf := store.Current()
	converter := currency.NewConverter(logger, conf.Currency.NewRateClient(logger), conf.TaxConfig().USDToINRFallback)
	comparator := compare.NewComparator(logger, store, converter)

	if serverConf.WatchConfig {
		store.OnReload(func(c *config.Configuration) {
			// The rate client is built once; tax slabs and usd_inr are read per request.
			if c.Currency != conf.Currency {
				logger.Warn("currency settings changed, restart to apply",
					zap.String("op", "main"),
				)
			}
		})
		store.Watch()
	}

	httpServer := &http.Server{
		Addr:              serverConf.Address,
		Handler:           server.NewHandler(logger, comparator, store, serverConf.BodySizeBytes(), version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			zap.String("op", "main"),
			zap.String("address", serverConf.Address),
			zap.String("version", version),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error",
			zap.String("op", "main"),
			zap.Error(err),
		)
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("server stopped",
		zap.String("op", "main"),
	)
}
