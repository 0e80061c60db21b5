package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoracle/oracle/models"
	"github.com/dmoracle/oracle/services"
)

type fakeOracle struct {
	answer  func(ctx context.Context, question, sessionID string) (*models.QueryResponse, error)
	narrate func(ctx context.Context, prompt, style string) (*models.NarrateResponse, error)
}

func (f *fakeOracle) Answer(ctx context.Context, question, sessionID string) (*models.QueryResponse, error) {
	return f.answer(ctx, question, sessionID)
}

func (f *fakeOracle) Narrate(ctx context.Context, prompt, style string) (*models.NarrateResponse, error) {
	return f.narrate(ctx, prompt, style)
}

func setupRouter(oracle services.OracleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	c := NewOracleController(oracle)
	r := gin.New()
	r.GET("/health", c.Health)
	r.POST("/api/v1/query", c.Query)
	r.POST("/api/v1/narrate", c.Narrate)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQueryEndpoint(t *testing.T) {
	oracle := &fakeOracle{
		answer: func(ctx context.Context, question, sessionID string) (*models.QueryResponse, error) {
			return &models.QueryResponse{
				Answer:           "AC 18.",
				Route:            models.RouteStructured,
				Sources:          []string{"D&D Monster Database"},
				RetrievalSuccess: true,
				SessionID:        sessionID,
				Metadata:         map[string]any{"attempts_used": 1},
			}, nil
		},
	}
	router := setupRouter(oracle)

	w := postJSON(t, router, "/api/v1/query", models.QueryRequest{Query: "What is a Beholder's armor class?"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AC 18.", resp.Answer)
	assert.NotEmpty(t, resp.SessionID, "a session id is minted when the caller omits one")
	assert.Contains(t, resp.Metadata, "latency_ms")
}

func TestQueryEndpointKeepsSessionID(t *testing.T) {
	oracle := &fakeOracle{
		answer: func(ctx context.Context, question, sessionID string) (*models.QueryResponse, error) {
			return &models.QueryResponse{Answer: "ok", Route: models.RouteUnstructured, SessionID: sessionID}, nil
		},
	}
	router := setupRouter(oracle)

	w := postJSON(t, router, "/api/v1/query", models.QueryRequest{Query: "q", SessionID: "session-42"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session-42", resp.SessionID)
}

func TestQueryEndpointMissingBody(t *testing.T) {
	router := setupRouter(&fakeOracle{})

	w := postJSON(t, router, "/api/v1/query", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryEndpointInvalidInput(t *testing.T) {
	oracle := &fakeOracle{
		answer: func(ctx context.Context, question, sessionID string) (*models.QueryResponse, error) {
			return nil, fmt.Errorf("%w: question must not be empty", services.ErrInvalidInput)
		},
	}
	router := setupRouter(oracle)

	w := postJSON(t, router, "/api/v1/query", models.QueryRequest{Query: "   "})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestNarrateEndpoint(t *testing.T) {
	oracle := &fakeOracle{
		narrate: func(ctx context.Context, prompt, style string) (*models.NarrateResponse, error) {
			return &models.NarrateResponse{Text: "Fog rolls in.", Style: style, Success: true}, nil
		},
	}
	router := setupRouter(oracle)

	w := postJSON(t, router, "/api/v1/narrate", models.NarrateRequest{Prompt: "a tavern", Style: "mysterious"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.NarrateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "mysterious", resp.Style)
}

func TestNarrateEndpointInvalidStyle(t *testing.T) {
	oracle := &fakeOracle{
		narrate: func(ctx context.Context, prompt, style string) (*models.NarrateResponse, error) {
			return nil, fmt.Errorf("%w: unknown narrative style %q", services.ErrInvalidInput, style)
		},
	}
	router := setupRouter(oracle)

	w := postJSON(t, router, "/api/v1/narrate", models.NarrateRequest{Prompt: "a tavern", Style: "invalid-style"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(&fakeOracle{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}
