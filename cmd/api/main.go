package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "pesavest-backend/internal/adapter/http"
	"pesavest-backend/internal/adapter/middleware"
	"pesavest-backend/internal/adapter/repository/mysql"
	"pesavest-backend/internal/config"
	"pesavest-backend/internal/gateway/mpesa"
	"pesavest-backend/internal/infrastructure/cache"
	"pesavest-backend/internal/infrastructure/db"
	"pesavest-backend/internal/infrastructure/logging"
	"pesavest-backend/internal/usecase/accrual"
	"pesavest-backend/internal/usecase/deposit"
	"pesavest-backend/internal/usecase/statement"
	"pesavest-backend/internal/usecase/withdrawal"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("open mysql")
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		log.WithError(err).Fatal("migrate schema")
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := mysql.SeedDefaultPlans(ctx, gdb); err != nil {
		log.WithError(err).Fatal("seed plans")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("open redis")
	}

	gateway := mpesa.NewClient(mpesa.Config{
		BaseURL:        cfg.MpesaBaseURL,
		ConsumerKey:    cfg.MpesaConsumerKey,
		ConsumerSecret: cfg.MpesaConsumerSecret,
		Shortcode:      cfg.MpesaShortcode,
		Passkey:        cfg.MpesaPasskey,
		CallbackURL:    cfg.MpesaCallbackURL,
		Timeout:        cfg.MpesaTimeout(),
	})

	guow := mysql.NewGormUoW(gdb)
	plans := mysql.NewPlanRepository(gdb)
	investments := mysql.NewInvestmentRepository(gdb)
	balances := mysql.NewBalanceRepository(gdb)
	ledgerRepo := mysql.NewLedgerRepository(gdb)

	depositUC := deposit.NewUsecase(guow, plans, gateway, log, cfg.IntentTTL, cfg.StrictAmount)
	withdrawalUC := withdrawal.NewUsecase(guow, log, cfg.WithdrawalMin, cfg.WithdrawalFlatFee)
	statementUC := statement.NewUsecase(balances, ledgerRepo, investments)
	engine := accrual.NewEngine(guow, investments, accrual.NewRedisLocker(cache.NewLocker(rdb)), log)

	h := httpadp.NewHandler()
	depositH := httpadp.NewDepositHandler(depositUC)
	callbackH := httpadp.NewCallbackHandler(depositUC, log)
	withdrawalH := httpadp.NewWithdrawalHandler(withdrawalUC)
	statementH := httpadp.NewStatementHandler(statementUC, plans)
	accrualH := httpadp.NewAccrualHandler(engine, depositUC, cfg.CronKey)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)
	e.GET("/api/plans", statementH.ListPlans)
	e.POST("/api/deposits", depositH.CreateDeposit, idemp)
	e.POST("/api/payments/mpesa/callback", callbackH.MpesaCallback)
	e.GET("/api/accounts/:account_id/balance", statementH.GetBalance)
	e.GET("/api/accounts/:account_id/transactions", statementH.ListTransactions)
	e.GET("/api/accounts/:account_id/portfolio", statementH.GetPortfolio)
	e.POST("/api/withdrawals", withdrawalH.RequestWithdrawal, idemp)
	e.POST("/api/admin/withdrawals/:withdrawal_id/approve", withdrawalH.Approve)
	e.POST("/api/admin/withdrawals/:withdrawal_id/process", withdrawalH.MarkProcessing)
	e.POST("/api/admin/withdrawals/:withdrawal_id/complete", withdrawalH.Complete)
	e.POST("/api/admin/withdrawals/:withdrawal_id/cancel", withdrawalH.Cancel)
	e.POST("/api/admin/withdrawals/:withdrawal_id/fail", withdrawalH.Fail)
	e.POST("/api/admin/accrual/run", accrualH.RunAccrual)
	e.POST("/api/admin/intents/sweep", accrualH.SweepIntents)

	// background loops
	accrual.NewScheduler(engine, cfg.AccrualInterval, log).Start(ctx)
	go sweepLoop(ctx, depositUC, cfg.SweepInterval, log)

	go func() {
		addr := ":" + cfg.AppPort
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil {
			log.WithError(err).Info("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

// sweepLoop expires stale pending intents on a fixed cadence. The sweep is
// idempotent, so overlapping with the admin endpoint is harmless.
func sweepLoop(ctx context.Context, uc *deposit.Usecase, interval time.Duration, log *logrus.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := uc.SweepExpired(ctx)
			if err != nil {
				log.WithError(err).Error("intent sweep failed")
				continue
			}
			if n > 0 {
				log.WithField("expired", n).Info("intents swept")
			}
		}
	}
}
