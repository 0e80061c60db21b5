package main

import (
	"context"
	"net/http"
	"os"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"github.com/dmoracle/oracle/config"
	"github.com/dmoracle/oracle/controller"
	"github.com/dmoracle/oracle/services"
	"github.com/dmoracle/oracle/storage"
)

const factTableLabel = "D&D Monster Database"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "oracle",
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	// Fact table. Seed the starter bestiary on a fresh database.
	store, err := storage.Open(cfg.DBPath, cfg.FactTable)
	if err != nil {
		logger.Fatal("failed to open monster database", "error", err)
	}
	defer store.Close()

	if n, err := store.Count(context.Background()); err != nil {
		logger.Fatal("failed to inspect monster database", "error", err)
	} else if n == 0 {
		logger.Info("empty fact table, loading sample monsters")
		if err := store.SeedSampleData(context.Background()); err != nil {
			logger.Fatal("failed to seed monster database", "error", err)
		}
	}

	// Rules corpus.
	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		logger.Fatal("failed to create chroma client", "error", err)
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			logger.Warn("failed to close chroma client", "error", err)
		}
	}()

	collection, err := getOrCreateCollection(chromaClient, cfg.CollectionName)
	if err != nil {
		logger.Fatal("failed to get or create collection", "error", err)
	}

	// Gemini.
	geminiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Fatal("failed to create gemini client", "error", err)
	}
	logger.Info("connected to Google Gemini", "model", cfg.GeminiModel)

	llm := services.NewGeminiClient(geminiClient, cfg.GeminiModel, cfg.LLMTimeout)
	embedder := services.NewOllamaEmbedder(httpClient, cfg.OllamaURL, cfg.EmbedModel)
	searcher := services.NewChromaSearcher(collection, embedder, cfg.TopKPassages)

	router := services.NewQueryRouter(llm, logger.WithPrefix("router"), nil)
	structured := services.NewStructuredRetriever(llm, store, cfg.FactTable, cfg.MaxSQLRetries, cfg.RetryBackoff, logger.WithPrefix("sql"))
	unstructured := services.NewUnstructuredRetriever(searcher, logger.WithPrefix("corpus"))
	synthesizer := services.NewAnswerSynthesizer(llm, logger.WithPrefix("synth"))

	oracle := services.NewOracleService(router, structured, unstructured, synthesizer, llm, factTableLabel, logger.WithPrefix("engine"))
	oracleController := controller.NewOracleController(oracle)

	// Optional corpus ingestion: scan once, then watch for changes.
	if cfg.RulesDir != "" {
		if key := os.Getenv("UNIDOC_LICENSE_KEY"); key != "" {
			if err := services.SetupPDFLicense(key); err != nil {
				logger.Warn("failed to set unidoc license, PDF ingestion disabled", "error", err)
			}
		}
		indexer := services.NewCorpusIndexingService(collection, embedder, logger.WithPrefix("indexer"))
		go func() {
			indexer.ScanAndIndexDirectory(context.Background(), cfg.RulesDir)
			indexer.WatchDirectory(context.Background(), cfg.RulesDir)
		}()
	}

	engine := gin.Default()

	engine.GET("/health", oracleController.Health)

	apiV1 := engine.Group("/api/v1")
	{
		apiV1.POST("/query", oracleController.Query)
		apiV1.POST("/narrate", oracleController.Narrate)
	}

	logger.Info("starting server", "port", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", "error", err)
	}
}

func getOrCreateCollection(client chromago.Client, name string) (chromago.Collection, error) {
	ctx := context.Background()

	collection, err := client.GetOrCreateCollection(
		ctx,
		name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "D&D rules corpus"),
				chromago.NewStringAttribute("created_by", "oracle"),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return collection, nil
}
