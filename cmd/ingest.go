/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/consent-draft-be/config"
	"github.com/tieubaoca/consent-draft-be/database"
	"github.com/tieubaoca/consent-draft-be/service"
	"github.com/tieubaoca/consent-draft-be/utils"
	"go.uber.org/zap"
)

// ingestCmd ingests protocol files from the command line through the
// same pipeline the upload endpoint uses.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest protocol PDFs into the retrieval index",
	Long: `Extracts, chunks and indexes one PDF or every PDF in a directory.
Chunks already present in the index (by content fingerprint) are skipped,
so re-running on the same files inserts nothing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		filePath, _ := cmd.Flags().GetString("file")
		directory, _ := cmd.Flags().GetString("dir")

		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		defer logger.Sync()

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			logger.Fatal("Failed to connect to Weaviate database", zap.Error(err))
		}
		jobStore, err := database.NewFileJobStore(cfg.JobsFile)
		if err != nil {
			logger.Fatal("Failed to open job store", zap.Error(err))
		}

		var embedder service.Embedder
		embedder = service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		if cached, err := service.NewCachingEmbedder(embedder, cfg.CacheDir); err == nil {
			embedder = cached
		}

		pdfService := service.NewPDFService(logger)
		splitter := service.NewSplitter(cfg.SplitterConfig(), service.NewTokenLen(cfg.Model))
		ingestService := service.NewIngestService(weaviateDb, jobStore, pdfService, splitter, embedder, logger)

		var paths []string
		switch {
		case filePath != "":
			paths = []string{filePath}
		case directory != "":
			entries, err := os.ReadDir(directory)
			if err != nil {
				logger.Fatal("Failed to read directory", zap.Error(err))
			}
			for _, entry := range entries {
				if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
					continue
				}
				paths = append(paths, filepath.Join(directory, entry.Name()))
			}
		default:
			logger.Fatal("Either --file or --dir is required")
		}

		files := make([]service.SavedFile, 0, len(paths))
		names := make([]string, 0, len(paths))
		for _, path := range paths {
			// Copy into the upload dir so the files endpoint can serve it.
			saved, err := utils.CopyFile(path, cfg.UploadDir)
			if err != nil {
				logger.Error("Failed to stage file", zap.String("file", path), zap.Error(err))
				continue
			}
			files = append(files, service.SavedFile{
				Filename: filepath.Base(path),
				Path:     saved,
			})
			names = append(names, filepath.Base(path))
		}
		if err := ingestService.QueueJobs(names); err != nil {
			logger.Fatal("Failed to queue jobs", zap.Error(err))
		}
		ingestService.IngestBatch(context.Background(), files)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
	ingestCmd.Flags().StringP("file", "f", "", "Path to a single PDF to ingest")
	ingestCmd.Flags().String("dir", "", "Directory of PDFs to ingest")
}
