package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rag-chatbot-backend/internal/ai"
	"rag-chatbot-backend/internal/config"
	"rag-chatbot-backend/internal/logger"
	"rag-chatbot-backend/internal/store"
	"rag-chatbot-backend/internal/vectorstore"
	"rag-chatbot-backend/middleware"
	"rag-chatbot-backend/routes"
	"rag-chatbot-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Relational store for documents and bookings
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	// Redis backs session history and rate limiting
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Embeddings client
	ctx := context.Background()
	embedClient, err := ai.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create embeddings client:", err)
	}
	defer embedClient.Close()

	embedder := services.NewEmbeddingService(embedClient, cfg.EmbeddingDimension)

	// Vector index: remote Qdrant when configured, in-process otherwise.
	// Init reconciles the index dimension and must run before any writes;
	// this process is the single index-initialization owner.
	var index vectorstore.Index
	if cfg.QdrantURL != "" {
		index = vectorstore.NewQdrant(vectorstore.QdrantConfig{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		})
	} else {
		logger.Warn("QDRANT_URL not set, using in-process vector index")
		index = vectorstore.NewMemory()
	}
	if err := index.Init(ctx, cfg.EmbeddingDimension); err != nil {
		log.Fatal("Failed to initialize vector index:", err)
	}

	chunker, err := services.NewTextChunker(cfg.ChunkSize, cfg.ChunkOverlap, cfg.SentencesPerChunk)
	if err != nil {
		log.Fatal("Invalid chunking configuration:", err)
	}

	sessions := services.NewSessionStore(rdb, cfg.SessionTTL, cfg.SessionMaxMessages)
	docService := services.NewDocumentService(services.NewTextExtractor(), chunker, embedder, index)
	chatService := services.NewChatService(embedder, index, sessions, cfg.RetrievalTopK, cfg.ScoreThreshold)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	router.MaxMultipartMemory = cfg.MaxFileSize

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "RAG System API",
			"endpoints": gin.H{
				"document_ingestion": "/api/ingest/upload",
				"chat_query":         "/api/chat/query",
				"book_interview":     "/api/chat/book-interview",
				"chat_history":       "/api/chat/history/{session_id}",
			},
		})
	})

	routes.SetupIngestionRoutes(router, cfg, docService, db)
	routes.SetupChatRoutes(router, chatService, sessions, db)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
