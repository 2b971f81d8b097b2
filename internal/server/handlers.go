package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/descope-sample-apps/crewai-app/internal/logging"
)

// crewRequest is the POST /api/crew body.
type crewRequest struct {
	UserRequest string `json:"user_request"`
}

// crewResponse is the POST /api/crew success envelope. Success mirrors the
// dispatcher's aggregate flag; the per-task breakdown is in CombinedResult.
type crewResponse struct {
	Success        bool        `json:"success"`
	UserRequest    string      `json:"user_request"`
	Result         string      `json:"result"`
	CombinedResult interface{} `json:"combined_result"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Backend is running!",
	})
}

func (s *Server) handleCrew(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		// Route misconfiguration; auth middleware always sets this.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
		return
	}

	var req crewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No JSON data provided"})
		return
	}
	if req.UserRequest == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_request is required"})
		return
	}

	logger := s.logger.With(
		logging.Operation("crew.dispatch"),
		logging.UserHash(identity.UserID))
	logger.Info("dispatching user request")

	result, err := s.dispatcher.Dispatch(c.Request.Context(), req.UserRequest, identity)
	if err != nil {
		logger.Error("dispatch failed", logging.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":      false,
			"user_request": req.UserRequest,
			"error":        "Crew execution failed: " + err.Error(),
		})
		return
	}

	logger.Info("dispatch completed", logging.Status(statusOf(result.Success)))
	c.JSON(http.StatusOK, crewResponse{
		Success:        result.Success,
		UserRequest:    req.UserRequest,
		Result:         result.CombinedText,
		CombinedResult: result,
	})
}

func statusOf(success bool) string {
	if success {
		return logging.StatusSuccess
	}
	return logging.StatusError
}
