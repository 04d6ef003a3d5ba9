package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusdesk/lecture-scheduler/api/swagger"
	"github.com/campusdesk/lecture-scheduler/internal/handler"
	internalmiddleware "github.com/campusdesk/lecture-scheduler/internal/middleware"
	"github.com/campusdesk/lecture-scheduler/internal/repository"
	"github.com/campusdesk/lecture-scheduler/internal/service"
	"github.com/campusdesk/lecture-scheduler/pkg/cache"
	"github.com/campusdesk/lecture-scheduler/pkg/config"
	"github.com/campusdesk/lecture-scheduler/pkg/database"
	"github.com/campusdesk/lecture-scheduler/pkg/lock"
	"github.com/campusdesk/lecture-scheduler/pkg/logger"
	corsmiddleware "github.com/campusdesk/lecture-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/campusdesk/lecture-scheduler/pkg/middleware/requestid"
)

// @title Lecture Scheduler API
// @version 1.0.0
// @description Scheduling backend for academic lectures: rooms, lecturers, stages and conflict-checked lecture sessions.
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := validator.New()

	cacheSvc := service.NewCacheService(nil, metrics, cfg.Cache.TTL, logr, false)
	var locker lock.Locker
	if cfg.Cache.Enabled || cfg.SlotLock.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		if cfg.Cache.Enabled {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
		}
		if cfg.SlotLock.Enabled {
			locker = lock.NewRedisLocker(redisClient)
		}
	}

	roomRepo := repository.NewRoomRepository(db)
	stageRepo := repository.NewStageRepository(db)
	lecturerRepo := repository.NewLecturerRepository(db)
	lectureRepo := repository.NewLectureRepository(db)

	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	stageSvc := service.NewStageService(stageRepo, validate, logr)
	lecturerSvc := service.NewLecturerService(lecturerRepo, validate, logr)
	lectureSvc := service.NewLectureService(lectureRepo, lecturerRepo, roomRepo, validate, logr).
		WithMetrics(metrics).
		WithCache(cacheSvc)
	if locker != nil {
		lectureSvc = lectureSvc.WithSlotLock(locker, cfg.SlotLock.TTL)
	}
	timetableSvc := service.NewTimetableService(lectureRepo, stageRepo, logr)

	roomHandler := handler.NewRoomHandler(roomSvc)
	stageHandler := handler.NewStageHandler(stageSvc, timetableSvc)
	lecturerHandler := handler.NewLecturerHandler(lecturerSvc)
	lectureHandler := handler.NewLectureHandler(lectureSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	write := api.Group("")
	if cfg.Auth.Enabled {
		write.Use(internalmiddleware.BearerAuth(cfg.Auth.Secret))
	}

	api.GET("/rooms", roomHandler.List)
	write.POST("/rooms", roomHandler.Create)
	write.DELETE("/rooms/:id", roomHandler.Delete)

	api.GET("/stages", stageHandler.List)
	api.GET("/stages/:id/timetable/export", stageHandler.ExportTimetable)
	write.POST("/stages", stageHandler.Create)
	write.DELETE("/stages/:id", stageHandler.Delete)

	api.GET("/lecturers", lecturerHandler.List)
	write.POST("/lecturers", lecturerHandler.Create)
	write.PUT("/lecturers/:id/day-offs", lecturerHandler.UpdateDayOffs)
	write.DELETE("/lecturers/:id", lecturerHandler.Delete)

	api.GET("/lectures", lectureHandler.List)
	write.POST("/lectures", lectureHandler.Create)
	write.PUT("/lectures/:id", lectureHandler.Update)
	write.DELETE("/lectures/:id", lectureHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
