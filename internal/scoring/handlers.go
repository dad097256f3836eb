package scoring

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/fraudguard/internal/feature"
	"github.com/mbd888/fraudguard/internal/model"
	"github.com/mbd888/fraudguard/internal/validation"
)

// Handler provides HTTP endpoints for transaction scoring.
type Handler struct {
	engine *Engine
}

// NewHandler creates a new scoring handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes sets up the scoring routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/transactions/score", h.ScoreTransaction)
	r.GET("/transactions/recent", h.RecentTransactions)
	r.GET("/stats", h.GetStats)
	r.GET("/model", h.GetModel)
}

// ScoreRequest is the request body for POST /v1/transactions/score.
type ScoreRequest struct {
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Location  string  `json:"location"`
	Device    string  `json:"device"`
	Timestamp string  `json:"timestamp"` // RFC3339; defaults to now when omitted
}

// ScoreTransaction handles POST /v1/transactions/score
func (h *Handler) ScoreTransaction(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if !validation.IsValidUserID(req.UserID) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_user_id",
			"message": "user_id must be 1-100 characters of [A-Za-z0-9._-]",
		})
		return
	}
	if req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_amount",
			"message": "amount must be non-negative",
		})
		return
	}

	ts, err := validation.ParseTimestamp(req.Timestamp)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_timestamp",
			"message": "timestamp must be RFC3339",
		})
		return
	}

	tx := Transaction{
		UserID:    req.UserID,
		Amount:    req.Amount,
		Location:  validation.SanitizeString(req.Location, validation.MaxCategoryLength),
		Device:    validation.SanitizeString(req.Device, validation.MaxCategoryLength),
		Timestamp: ts,
	}

	assessment, err := h.engine.Score(c.Request.Context(), tx)
	if err != nil {
		switch {
		case errors.Is(err, feature.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_input",
				"message": err.Error(),
			})
		case errors.Is(err, model.ErrModelUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "model_unavailable",
				"message": "No trained model is loaded",
			})
		case errors.Is(err, model.ErrIncompatibleBundle):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "model_error",
				"message": "Model bundle is incompatible with this build",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "scoring_failed",
				"message": "Failed to score transaction",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction_id": assessment.TransactionID,
		"verdict":        assessment.Verdict,
		"probability":    assessment.Probability,
		"risk_score":     assessment.RiskScore,
	})
}

// RecentTransactions handles GET /v1/transactions/recent
func (h *Handler) RecentTransactions(c *gin.Context) {
	limit := 50
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_limit",
				"message": "limit must be between 1 and 500",
			})
			return
		}
		limit = n
	}

	records, err := h.engine.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to query recent transactions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": records,
		"count":        len(records),
	})
}

// GetStats handles GET /v1/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.engine.ComputeStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "stats_failed",
			"message": "Failed to compute stats",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetModel handles GET /v1/model
func (h *Handler) GetModel(c *gin.Context) {
	bundle := h.engine.Bundle()
	if bundle == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "model_unavailable",
			"message": "No trained model is loaded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"format_version": bundle.FormatVersion,
		"created_at":     bundle.CreatedAt,
		"feature_count":  len(bundle.FeatureColumns),
		"threshold":      bundle.Threshold,
	})
}
