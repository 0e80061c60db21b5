package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmoracle/oracle/models"
	"github.com/dmoracle/oracle/services"
)

// OracleController handles the HTTP requests for the Oracle API. It depends
// on the OracleService to perform the actual business logic.
type OracleController struct {
	oracle services.OracleService
}

// NewOracleController is a constructor function that creates a new
// OracleController. This is called from main.go to inject the service
// dependency.
func NewOracleController(oracle services.OracleService) *OracleController {
	return &OracleController{
		oracle: oracle,
	}
}

// Query is the Gin handler for the POST /api/v1/query endpoint. The engine
// encodes retrieval and synthesis failures in the response body, so anything
// other than invalid input answers 200.
func (c *OracleController) Query(ctx *gin.Context) {
	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	// Session IDs are opaque passthrough; mint one if the caller didn't.
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	start := time.Now()
	resp, err := c.oracle.Answer(ctx.Request.Context(), req.Query, req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to answer question"})
		return
	}

	if resp.Metadata == nil {
		resp.Metadata = map[string]any{}
	}
	resp.Metadata["latency_ms"] = time.Since(start).Milliseconds()

	ctx.JSON(http.StatusOK, resp)
}

// Narrate is the Gin handler for the POST /api/v1/narrate endpoint.
func (c *OracleController) Narrate(ctx *gin.Context) {
	var req models.NarrateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := c.oracle.Narrate(ctx.Request.Context(), req.Prompt, req.Style)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate narrative"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Health is the Gin handler for the GET /health endpoint.
func (c *OracleController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}
