package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"procurement/db"
	"procurement/db/migrations"
	"procurement/internal/approval"
	"procurement/internal/bidding"
	"procurement/internal/config"
	"procurement/internal/handlers"
	"procurement/internal/intake"
	"procurement/internal/llm"
	"procurement/internal/logger"
	"procurement/internal/matching"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.NewWithOptions(logger.WithOutput(os.Stderr)).Error("invalid configuration", "error", err)
		return err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logger.NewWithOptions(logger.WithLevel(level), logger.WithFormat(cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseDSN)
	if err != nil {
		log.Error("cannot connect to DB", "error", err)
		return err
	}
	defer dbConn.Close()

	if err := migrations.Run(ctx, dbConn.DB, log); err != nil {
		log.Error("migrations failed", "error", err)
		return err
	}

	store := db.NewStorage(dbConn)

	// при выключенных LLM клиент остается nil, сопоставление и черновики отвечают 503
	var client llm.Client
	if cfg.LLM.Enabled {
		openaiClient := llm.NewOpenAIClient(llm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Timeout: cfg.LLM.Timeout,
		}, log.With("component", "llm"))
		defer openaiClient.Close()
		client = openaiClient
	}

	h := handlers.NewHandler(store, handlers.Services{
		Approvals: approval.NewWorkflow(approval.NewSQLStore(store), log.With("component", "approval")),
		Matcher:   matching.NewService(client, store, log, matching.WithModel(cfg.LLM.MatchModel)),
		Drafter:   intake.NewDrafter(client, log, intake.WithModel(cfg.LLM.IntakeModel)),
		Bids:      bidding.NewService(store, log),
	}, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		// поставщики
		r.Get("/vendors", h.ListVendorsHandler)
		r.Post("/vendors", h.CreateVendorHandler)
		r.Get("/vendors/{vendorId}", h.GetVendorHandler)
		r.Put("/vendors/{vendorId}", h.UpdateVendorHandler)
		r.Delete("/vendors/{vendorId}", h.DeleteVendorHandler)
		r.Get("/vendors/{vendorId}/requisitions", h.GetVendorRequisitionsHandler)
		r.Get("/vendors/{vendorId}/bids", h.GetVendorBidsHandler)

		// заявки
		r.Get("/requisitions", h.ListRequisitionsHandler)
		r.Post("/requisitions", h.CreateRequisitionHandler)
		r.Post("/requisitions/draft", h.DraftRequisitionHandler)
		r.Get("/requisitions/{requisitionId}", h.GetRequisitionHandler)
		r.Put("/requisitions/{requisitionId}", h.UpdateRequisitionHandler)
		r.Get("/requisitions/{requisitionId}/release", h.ReleaseRequisitionHandler)
		r.Get("/requisitions/{requisitionId}/bids.xlsx", h.BidComparisonHandler)

		// сопоставления
		r.Post("/requisitions/{requisitionId}/matches", h.RunMatchingHandler)
		r.Get("/requisitions/{requisitionId}/matches", h.ListRequisitionMatchesHandler)
		r.Get("/matches", h.ListMatchesHandler)
		r.Put("/matches/{matchId}/status", h.UpdateMatchStatusHandler)

		// предложения (bids)
		r.Post("/bids", h.SubmitBidHandler)
		r.Get("/requisitions/{requisitionId}/bids", h.ListRequisitionBidsHandler)
		r.Get("/requisitions/{requisitionId}/tier", h.RequiredTierHandler)

		// решения
		r.Post("/bids/{bidId}/approve", h.ApproveBidHandler)
		r.Post("/bids/{bidId}/reject", h.RejectBidHandler)
		r.Get("/approvals", h.ListApprovedBidsHandler)
		r.Get("/approvals/summary", h.ApprovalSummaryHandler)
		r.Get("/approvals/requisitions", h.RequisitionsWithBidsHandler)
	})

	server := &http.Server{Addr: cfg.ServerAddress, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.ServerAddress, "llm_enabled", cfg.LLM.Enabled)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
