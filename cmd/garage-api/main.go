package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/motorhall/garage-api/api/swagger"
	"github.com/motorhall/garage-api/internal/handler"
	"github.com/motorhall/garage-api/internal/middleware"
	"github.com/motorhall/garage-api/internal/models"
	"github.com/motorhall/garage-api/internal/repository"
	"github.com/motorhall/garage-api/internal/service"
	"github.com/motorhall/garage-api/pkg/cache"
	"github.com/motorhall/garage-api/pkg/config"
	"github.com/motorhall/garage-api/pkg/database"
	"github.com/motorhall/garage-api/pkg/jobs"
	"github.com/motorhall/garage-api/pkg/logger"
	corsmiddleware "github.com/motorhall/garage-api/pkg/middleware/cors"
	reqidmiddleware "github.com/motorhall/garage-api/pkg/middleware/requestid"
)

// @title Garage API
// @version 1.0.0
// @description Workshop availability and appointment scheduling backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, availability caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	workshopRepo := repository.NewWorkshopRepository(db)
	mechanicRepo := repository.NewMechanicRepository(db)
	windowRepo := repository.NewScheduleWindowRepository(db)
	breakRepo := repository.NewBreakPeriodRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	availabilitySvc := service.NewAvailabilityService(windowRepo, breakRepo, bookingRepo, cacheRepo, location,
		service.AvailabilityConfig{
			CacheTTL:     cfg.Availability.CacheTTL,
			MaxRangeDays: cfg.Availability.MaxRangeDays,
		}, metrics, logr)
	matcherSvc := service.NewMatcherService(mechanicRepo, windowRepo, breakRepo, bookingRepo, location, logr)
	bookingSvc := service.NewBookingService(workshopRepo, mechanicRepo, matcherSvc, service.FirstAvailablePolicy{},
		bookingRepo, appointmentRepo, availabilitySvc, validate, location,
		service.BookingConfig{DefaultDurationMinutes: cfg.Bookings.DefaultDurationMinutes}, metrics, logr)
	scheduleSvc := service.NewScheduleAdminService(windowRepo, breakRepo, availabilitySvc, validate, logr)
	statusSvc := service.NewStatusService(appointmentRepo, bookingRepo, metrics, logr, nil)
	exportSvc := service.NewExportService(workshopRepo, mechanicRepo, appointmentRepo, location, logr)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)

	statusQueue := jobs.NewQueue("appointment-status", statusSvc.QueueHandler(), jobs.QueueConfig{
		Workers: cfg.StatusJob.Workers,
		Logger:  logr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statusQueue.Start(ctx)
	defer statusQueue.Stop()
	go runStatusSweep(ctx, statusSvc, statusQueue, cfg.StatusJob.Interval, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc, location)
	mechanicHandler := handler.NewMechanicHandler(matcherSvc, location, cfg.Bookings.DefaultDurationMinutes)
	appointmentHandler := handler.NewAppointmentHandler(bookingSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/workshops/:id/availability", availabilityHandler.WorkshopDay)
		api.GET("/workshops/:id/availability/dates", availabilityHandler.WorkshopDates)
		api.GET("/mechanics/:id/availability", availabilityHandler.MechanicDay)
		api.GET("/workshops/:id/mechanics/availability", mechanicHandler.Availability)
		api.GET("/workshops/:id/mechanics/slots", mechanicHandler.TimeSlots)

		api.POST("/appointments", appointmentHandler.Create)
		api.GET("/appointments/:id", appointmentHandler.Get)

		staff := api.Group("/schedule", middleware.JWT(tokenSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
		{
			staff.GET("", scheduleHandler.Get)
			staff.PUT("/windows", scheduleHandler.UpsertWindow)
			staff.DELETE("/windows/:id", scheduleHandler.DeleteWindow)
			staff.POST("/breaks", scheduleHandler.CreateBreak)
			staff.DELETE("/breaks/:id", scheduleHandler.DeleteBreak)
		}

		if cfg.Exports.Enabled {
			exportHandler := handler.NewExportHandler(exportSvc, location)
			api.GET("/workshops/:id/day-sheet",
				middleware.JWT(tokenSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleStaff),
				exportHandler.DaySheet)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "timezone", cfg.Timezone)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// runStatusSweep periodically enqueues one status job per non-terminal
// appointment until the context is cancelled.
func runStatusSweep(ctx context.Context, statusSvc *service.StatusService, queue *jobs.Queue, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueued, err := statusSvc.EnqueueSweep(ctx, queue)
			if err != nil {
				logr.Sugar().Errorw("status sweep failed", "error", err)
				continue
			}
			if enqueued > 0 {
				logr.Sugar().Debugw("status sweep enqueued", "jobs", enqueued)
			}
		}
	}
}
