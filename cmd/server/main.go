package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lease-reservation/internal/config"
	"github.com/iliyamo/lease-reservation/internal/database"
	"github.com/iliyamo/lease-reservation/internal/handler"
	"github.com/iliyamo/lease-reservation/internal/middleware"
	"github.com/iliyamo/lease-reservation/internal/queue"
	"github.com/iliyamo/lease-reservation/internal/repository"
	"github.com/iliyamo/lease-reservation/internal/router"
	"github.com/iliyamo/lease-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; middleware degrades

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	leases := repository.NewLeaseRepo(db)
	reservations := repository.NewReservationRepo(db)

	leaseSvc := service.NewLeaseService(leases, reservations)
	reservationSvc := service.NewReservationService(reservations, leases, users, queue.Publisher{}, nil)
	userSvc := service.NewUserService(users, reservations)
	sweeper := service.NewSweeper(reservations, cfg.SweepInterval, cfg.SweepBatch, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweeper.Run(ctx)
	go func() {
		if err := queue.StartConfirmedConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterLeases(e, handler.NewLeaseHandler(leaseSvc), cfg.JWTSecret)
	router.RegisterReservations(e, handler.NewReservationHandler(reservationSvc), cfg.JWTSecret)
	router.RegisterUsers(e, handler.NewUserHandler(userSvc), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
