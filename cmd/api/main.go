package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-gig-booking/internal/api"
	"github.com/sanosuguru/go-gig-booking/internal/api/handler"
	custommiddleware "github.com/sanosuguru/go-gig-booking/internal/api/middleware"
	"github.com/sanosuguru/go-gig-booking/internal/application"
	"github.com/sanosuguru/go-gig-booking/internal/config"
	"github.com/sanosuguru/go-gig-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-gig-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-gig-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-gig-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-gig-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	// ロガー初期化
	l := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(l)
	defer logger.Sync()

	// メトリクス初期化
	m := metrics.Init()

	// DB接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	if err := postgres.RunMigrations(db.DB, "migrations"); err != nil {
		logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Redis接続
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	lockManager := redisinfra.NewLockManager(redisClient)
	availabilityCache := redisinfra.NewAvailabilityCache(redisClient)

	// リポジトリ初期化
	txManager := postgres.NewTxManager(db)
	performerRepo := postgres.NewPerformerRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)
	windowRepo := postgres.NewAvailabilityRepository(db)
	requestRepo := postgres.NewQuoteRequestRepository(db)
	proposalRepo := postgres.NewProposalRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)

	loc := cfg.App.Location()

	// サービス初期化
	performerService := application.NewPerformerService(performerRepo)
	eventService := application.NewEventService(txManager, eventRepo, invitationRepo, historyRepo, performerRepo, windowRepo, loc)
	availabilityService := application.NewAvailabilityService(txManager, windowRepo, eventRepo, performerRepo, availabilityCache, loc)
	quoteService := application.NewQuoteService(txManager, requestRepo, proposalRepo, bookingRepo, performerRepo, lockManager)
	ratingService := application.NewRatingService(txManager, ratingRepo, performerRepo, eventRepo, invitationRepo)

	// ハンドラー初期化
	performerHandler := handler.NewPerformerHandler(performerService)
	eventHandler := handler.NewEventHandler(eventService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())

	registerRoutes(e, performerHandler, eventHandler, availabilityHandler, quoteHandler, ratingHandler)

	// 期限切れ提案クリーナー起動
	cleanerCtx, cancelCleaner := context.WithCancel(context.Background())
	cleaner := worker.NewExpiredProposalCleaner(quoteService, cfg.App.ProposalCleanerInterval)
	go cleaner.Start(cleanerCtx)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動に失敗しました", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	cancelCleaner()
	cleaner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンに失敗しました", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}

func registerRoutes(
	e *echo.Echo,
	performerHandler *handler.PerformerHandler,
	eventHandler *handler.EventHandler,
	availabilityHandler *handler.AvailabilityHandler,
	quoteHandler *handler.QuoteHandler,
	ratingHandler *handler.RatingHandler,
) {
	v1 := e.Group("/api/v1")

	v1.POST("/performers", performerHandler.Create)
	v1.GET("/performers", performerHandler.List)
	v1.GET("/performers/:id", performerHandler.GetByID)
	v1.PUT("/performers/:id", performerHandler.Update)
	v1.POST("/performers/:id/deactivate", performerHandler.Deactivate)

	v1.POST("/events", eventHandler.Create)
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.DELETE("/events/:id", eventHandler.Delete)
	v1.POST("/events/:id/respond", eventHandler.Respond)
	v1.POST("/events/:id/cancel", eventHandler.Cancel)
	v1.POST("/events/:id/reject", eventHandler.Reject)
	v1.GET("/events/:id/invitations", eventHandler.Invitations)
	v1.GET("/events/:id/history", eventHandler.History)

	v1.POST("/availability/windows", availabilityHandler.Declare)
	v1.PUT("/availability/windows/:id", availabilityHandler.Update)
	v1.DELETE("/availability/windows/:id", availabilityHandler.Delete)
	v1.GET("/performers/:performer_id/windows", availabilityHandler.List)
	v1.GET("/performers/:performer_id/conflicts", availabilityHandler.ProbeConflicts)
	v1.GET("/performers/:performer_id/availability/summary", availabilityHandler.Summary)

	v1.POST("/quotes", quoteHandler.CreateRequest)
	v1.GET("/quotes", quoteHandler.ListRequests)
	v1.GET("/quotes/:id", quoteHandler.GetRequest)
	v1.POST("/quotes/:id/proposals", quoteHandler.SubmitProposal)
	v1.GET("/quotes/:id/proposals", quoteHandler.ListProposals)
	v1.POST("/quotes/:id/accept", quoteHandler.AcceptProposal)
	v1.POST("/quotes/:id/cancel", quoteHandler.CancelRequest)
	v1.POST("/proposals/:proposal_id/decline", quoteHandler.DeclineProposal)
	v1.GET("/bookings/:id", quoteHandler.GetBooking)
	v1.POST("/bookings/:id/confirm", quoteHandler.ConfirmBooking)
	v1.POST("/bookings/:id/cancel", quoteHandler.CancelBooking)

	v1.POST("/ratings", ratingHandler.Record)
	v1.DELETE("/ratings/:id", ratingHandler.Delete)
	v1.GET("/performers/:performer_id/ratings", ratingHandler.ListByPerformer)
}
