package routes

import (
	"net/http"

	"rag-chatbot-backend/internal/store"
	"rag-chatbot-backend/models"
	"rag-chatbot-backend/services"
	"rag-chatbot-backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupChatRoutes(router *gin.Engine, chatService *services.ChatService, sessions services.SessionLog, db *store.Store) {
	chat := router.Group("/api/chat")

	chat.POST("/query", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		result := chatService.Chat(c.Request.Context(), req.SessionID, req.Query)

		c.JSON(http.StatusOK, gin.H{
			"status":           "success",
			"session_id":       req.SessionID,
			"query":            req.Query,
			"response":         result.Response,
			"context_used":     result.ContextUsed,
			"booking_detected": result.BookingDetected,
		})
	})

	chat.GET("/history/:session_id", func(c *gin.Context) {
		sessionID := c.Param("session_id")
		history := sessions.History(c.Request.Context(), sessionID)

		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"session_id": sessionID,
			"history":    history,
		})
	})

	chat.POST("/book-interview", func(c *gin.Context) {
		var req models.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid booking data", gin.H{"error": err.Error()})
			return
		}

		booking := models.InterviewBooking{
			Name:          req.Name,
			Email:         req.Email,
			InterviewDate: req.InterviewDate,
			InterviewTime: req.InterviewTime,
		}

		if _, err := db.InsertBooking(c.Request.Context(), &booking); err != nil {
			utils.RespondWithInternalError(c, "Failed to store booking", err.Error())
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status":  "success",
			"message": "Interview booked successfully",
			"booking": booking,
		})
	})
}
