package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/yeremiapane/restaurant-pos/config"
	"github.com/yeremiapane/restaurant-pos/database"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/mq"
	"github.com/yeremiapane/restaurant-pos/router"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/store/gormstore"
	"github.com/yeremiapane/restaurant-pos/telemetry"
	"github.com/yeremiapane/restaurant-pos/utils"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "restaurant-pos"

func main() {
	cfg := config.Load()

	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	cfg.AddFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		utils.ErrorLogger.Fatalf("Invalid flags: %v", err)
	}

	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	utils.SetJWTSecret(cfg.JWTSecret)
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTelemetry := telemetry.Setup(telemetry.Options{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	st := gormstore.New(db)

	var publisher services.TicketPublisher
	if cfg.AMQPURL != "" {
		p, err := mq.Dial(cfg.AMQPURL)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
		utils.InfoLogger.Println("Ticket fan-out enabled")
	}

	hub := kds.NewHub()
	orderService := services.NewOrderService(st, st, st, publisher)
	orderService.Notifier = hub
	tableService := services.NewTableService(st, st, st)
	businessService := services.NewBusinessService(st, st, tableService, database.SeedMenu)
	userService := services.NewUserService(st)

	if err := userService.EnsureSuperAdmin(context.Background(), cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to create superadmin: %v", err)
	}

	monitor := services.NewChangeMonitor(st, hub)
	monitor.Interval = cfg.FeedPoll
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(router.Dependencies{
		Catalog:     st,
		Orders:      orderService,
		Tables:      tableService,
		Businesses:  businessService,
		Users:       userService,
		Hub:         hub,
		SeedMenu:    cfg.SeedMenu,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     otelhttp.NewHandler(r, serviceName),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.ErrorLogger.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("shutdown error: %v", err)
	}
	utils.InfoLogger.Println("Server stopped")
}
