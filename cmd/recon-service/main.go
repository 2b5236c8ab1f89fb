package main

import (
	"fmt"
	"os"

	"github.com/nurpe/procure-recon/internal/auth"
	"github.com/nurpe/procure-recon/internal/config"
	"github.com/nurpe/procure-recon/internal/db"
	"github.com/nurpe/procure-recon/internal/excel"
	httphandler "github.com/nurpe/procure-recon/internal/http"
	"github.com/nurpe/procure-recon/internal/http/middleware"
	"github.com/nurpe/procure-recon/internal/logger"
	"github.com/nurpe/procure-recon/internal/pdf"
	"github.com/nurpe/procure-recon/internal/repository"
	"github.com/nurpe/procure-recon/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	docRepo := repository.NewDocumentRepository(database)

	workspaceService := service.NewWorkspaceService(docRepo, cfg, log)
	documentService := service.NewDocumentService(docRepo, log)
	exportService := service.NewExportService(workspaceService, excel.NewGenerator(), pdf.NewGenerator())

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(workspaceService, documentService, exportService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting reconciliation service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
