package routes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"rag-chatbot-backend/internal/config"
	"rag-chatbot-backend/internal/store"
	"rag-chatbot-backend/services"
	"rag-chatbot-backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupIngestionRoutes(router *gin.Engine, cfg *config.Config, docService *services.DocumentService, db *store.Store) {
	ingest := router.Group("/api/ingest")

	ingest.POST("/upload", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file provided", nil)
			return
		}

		filename := fileHeader.Filename
		lower := strings.ToLower(filename)
		if !strings.HasSuffix(lower, ".pdf") && !strings.HasSuffix(lower, ".txt") {
			utils.RespondWithBadRequest(c, "Only .pdf, .txt files are supported", gin.H{"filename": filename})
			return
		}

		strategy, err := services.ParseChunkingStrategy(c.PostForm("chunking_strategy"))
		if err != nil {
			utils.RespondWithBadRequest(c, "chunking_strategy must be either 'fixed_size' or 'sentence_based'", nil)
			return
		}

		if fileHeader.Size == 0 {
			utils.RespondWithBadRequest(c, "File is empty", nil)
			return
		}
		if cfg.MaxFileSize > 0 && fileHeader.Size > cfg.MaxFileSize {
			utils.RespondWithBadRequest(c, fmt.Sprintf("File exceeds maximum size of %d bytes", cfg.MaxFileSize), nil)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read uploaded file", err.Error())
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read uploaded file", err.Error())
			return
		}

		doc, err := docService.Process(c.Request.Context(), filename, content, strategy)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnsupportedFileType), errors.Is(err, services.ErrUnknownStrategy):
				utils.RespondWithBadRequest(c, err.Error(), nil)
			case errors.Is(err, services.ErrEmptyDocument), errors.Is(err, services.ErrExtraction):
				utils.RespondWithUnprocessable(c, err.Error(), nil)
			default:
				utils.RespondWithInternalError(c, "Failed to process document", err.Error())
			}
			return
		}

		if _, err := db.InsertDocument(c.Request.Context(), doc); err != nil {
			utils.RespondWithInternalError(c, "Failed to persist document record", err.Error())
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status":            "success",
			"message":           "Document processed and stored successfully",
			"document_id":       doc.ID,
			"filename":          doc.Filename,
			"chunking_strategy": doc.ChunkingStrategy,
			"chunk_count":       doc.ChunkCount,
			"indexed_count":     doc.IndexedCount,
			"file_type":         doc.FileType,
		})
	})

	ingest.GET("/documents", func(c *gin.Context) {
		docs, err := db.ListDocuments(c.Request.Context())
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list documents", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "success",
			"documents": docs,
			"total":     len(docs),
		})
	})
}
