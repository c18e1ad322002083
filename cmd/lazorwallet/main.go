package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"lazorwallet/internal/client"
	"lazorwallet/internal/config"
	"lazorwallet/internal/demoseed"
	"lazorwallet/internal/infrastructure/restapi"
	"lazorwallet/internal/ledger"
	"lazorwallet/internal/pkg/logger"
	"lazorwallet/internal/service"
	"lazorwallet/internal/storage"
	"lazorwallet/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	// Bootstrap logger for the config loading phase.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Bridge slog callers onto the zap core.
	slogHandler := zapslog.NewHandler(zapLogger.Core(), &zapslog.HandlerOptions{})
	slog.SetDefault(slog.New(slogHandler))

	logger.Info("Wallet service starting")

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Warnf("Failed to load configuration from %s, using defaults: %v", cfgPath, err)
		cfg = config.Default()
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(file)
		} else {
			log.Infof("Failed to log to file, using default stdout: %v", err)
		}
	}

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	// Seed the initial wallet state, then prefer a persisted snapshot if one
	// matches the current demo flag.
	fresh := demoseed.InitialState(cfg.Demo.Enabled, demoseed.Options{
		Minimal: cfg.Demo.Minimal,
		Seed:    cfg.Demo.Seed,
	})
	localStore := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.Key, cfg.Demo.Enabled, zapLogger)
	initial, restored := localStore.Load(fresh)
	if restored {
		zapLogger.Info("Restored persisted wallet snapshot", zap.String("dir", cfg.Storage.Dir))
	} else {
		zapLogger.Info("Starting from a freshly seeded wallet state",
			zap.Bool("demo", cfg.Demo.Enabled),
			zap.Bool("minimal", cfg.Demo.Minimal))
	}

	store := ledger.New(initial, ledger.Config{SwapFeeRate: cfg.Ledger.SwapFeeRate}, localStore, zapLogger)
	zapLogger.Info("Ledger store initialized", zap.Float64("swapFeeRate", cfg.Ledger.SwapFeeRate))

	// External price lookups through the Jupiter lite API.
	jupiterClient := client.NewJupiterClient(
		cfg.Jupiter.BaseURL,
		time.Duration(cfg.Jupiter.RequestTimeoutMillis)*time.Millisecond,
		cfg.Jupiter.RatePerSecond,
		cfg.Jupiter.Burst,
		zapLogger,
	)
	zapLogger.Info("Jupiter client initialized", zap.String("baseURL", cfg.Jupiter.BaseURL))

	priceService := service.NewTokenPriceService(
		zapLogger,
		jupiterClient,
		time.Duration(cfg.PriceSvc.CacheTTLMinutes)*time.Minute,
		time.Duration(cfg.PriceSvc.RequestTimeoutMillis)*time.Millisecond,
	)
	zapLogger.Info("TokenPriceService initialized")

	// Warm the displayed prices in the background; the ledger never blocks
	// on the upstream.
	if cfg.PriceSvc.RefreshOnStartup {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			prices := priceService.RefreshHoldings(ctx, store.Snapshot().Tokens)
			if len(prices) > 0 {
				store.ApplyPrices(prices)
				zapLogger.Info("Startup price refresh applied", zap.Int("symbols", len(prices)))
			}
		}()
	}

	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(gin.Recovery())

	restapi.RegisterRoutes(router, restapi.NewWalletHandler(store, priceService, cfg, zapLogger))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
