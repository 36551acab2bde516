/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/consent-draft-be/config"
	"github.com/tieubaoca/consent-draft-be/database"
	"github.com/tieubaoca/consent-draft-be/handler"
	"github.com/tieubaoca/consent-draft-be/service"
	"go.uber.org/zap"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the consent drafting server",
	Long:  `Starts the server that ingests protocol files and streams generated consent drafts`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		defer logger.Sync()

		// Storage
		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			logger.Fatal("Failed to connect to Weaviate database", zap.Error(err))
		}
		jobStore, err := database.NewFileJobStore(cfg.JobsFile)
		if err != nil {
			logger.Fatal("Failed to open job store", zap.Error(err))
		}

		// Embeddings, with the on-disk cache in front of the API
		var embedder service.Embedder
		embedder = service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		if cached, err := service.NewCachingEmbedder(embedder, cfg.CacheDir); err == nil {
			embedder = cached
		} else {
			logger.Warn("embedding cache disabled", zap.Error(err))
		}

		// Generation backend
		var generator service.Generator
		switch cfg.Provider {
		case "gemini":
			generator, err = service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model)
			if err != nil {
				logger.Fatal("Failed to create Gemini service", zap.Error(err))
			}
		default:
			generator = service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model)
		}

		// Core services
		pdfService := service.NewPDFService(logger)
		splitter := service.NewSplitter(cfg.SplitterConfig(), service.NewTokenLen(cfg.Model))
		fileService, err := service.NewFileService(cfg.UploadDir)
		if err != nil {
			logger.Fatal("Failed to create upload directory", zap.Error(err))
		}
		ingestService := service.NewIngestService(weaviateDb, jobStore, pdfService, splitter, embedder, logger)
		retriever := service.NewRetrieverService(weaviateDb, embedder, cfg.RetrievalTopK)
		draftService := service.NewDraftService(retriever, generator, cfg.SectionTimeout(), logger)
		reviseService := service.NewReviseService(generator, cfg.SectionTimeout(), logger)
		exportService := service.NewExportService(service.NewMarkdownRenderer())
		wsService := service.NewWebSocketService(draftService, logger)

		// Handlers
		corsHandler := handler.NewCorsHandler()
		uploadHandler := handler.NewUploadHandler(fileService, ingestService, logger)
		statusHandler := handler.NewStatusHandler(jobStore)
		generateHandler := handler.NewGenerateHandler(draftService, logger)
		reviseHandler := handler.NewReviseHandler(reviseService, logger)
		exportHandler := handler.NewExportHandler(exportService)
		searchHandler := handler.NewSearchHandler(retriever)
		documentHandler := handler.NewDocumentHandler(fileService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/upload", uploadHandler.UploadDocumentHandler)
			apiV1.GET("/upload/status", statusHandler.HandleStatus)
			apiV1.POST("/generate", generateHandler.HandleGenerate)
			apiV1.GET("/generate/ws", gin.WrapF(wsService.HandleGenerate))
			apiV1.POST("/revise", reviseHandler.HandleRevise)
			apiV1.POST("/export", exportHandler.HandleExport)
			apiV1.POST("/documents/search", searchHandler.HandleSearch)
			apiV1.GET("/files", documentHandler.ServeDocument)
		}

		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := router.Run(":" + cfg.Port); err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
