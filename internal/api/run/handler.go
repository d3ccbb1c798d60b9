package run

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mkovacs/citation-judge/internal/model"
	"github.com/mkovacs/citation-judge/internal/pkg/redis"
	"github.com/mkovacs/citation-judge/internal/repository"
	"github.com/mkovacs/citation-judge/internal/service"
	"go.uber.org/zap"
)

const defaultListLimit = 20
const maxListLimit = 200

// CreateRun starts a new run row. The body is optional; a config mapping
// may be supplied, everything else takes its column default.
func CreateRun(c *gin.Context) {
	var req model.RunCreate
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
	}

	run, err := repository.CreateRun(req.Config)
	if err != nil {
		zap.L().Error("Failed to create run", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create run"})
		return
	}

	redis.InvalidateRuns()

	zap.L().Info("Run created", zap.String("run_id", run.RunID.String()))
	c.JSON(http.StatusCreated, run)
}

// GetRun fetches a single run by ID
func GetRun(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	run, err := repository.GetRun(runID)
	if err != nil {
		zap.L().Error("Failed to fetch run", zap.String("run_id", runID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListRuns returns the most recently started runs, newest first
func ListRuns(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid limit"})
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	if payload, ok := redis.GetRecentRuns(limit); ok {
		c.Data(http.StatusOK, "application/json", payload)
		return
	}

	runs, err := repository.ListRuns(limit)
	if err != nil {
		zap.L().Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list runs"})
		return
	}
	if runs == nil {
		runs = []model.CitationAccuracyRun{}
	}

	body := gin.H{"runs": runs, "count": len(runs)}
	if payload, err := json.Marshal(body); err == nil {
		redis.SetRecentRuns(limit, payload)
	}

	c.JSON(http.StatusOK, body)
}

// UpdateRun applies a partial update to a run's counters, results or config
func UpdateRun(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	var req model.RunUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	updated, err := repository.UpdateRun(runID, req.Updates)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidColumn) || errors.Is(err, repository.ErrNoUpdates) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		zap.L().Error("Failed to update run", zap.String("run_id", runID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update run"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Run not found"})
		return
	}

	redis.InvalidateRuns()

	c.JSON(http.StatusOK, gin.H{"message": "Run updated"})
}

// CompleteRun finalizes a run: counters, accuracy, results and the
// completed_at stamp. When the caller posts typed example results without
// explicit counters, the counters and accuracy are derived from the results.
func CompleteRun(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	// An empty body just stamps completed_at
	var req model.RunCompletion
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
	}

	fillCountersFromResults(&req)

	updated, err := repository.CompleteRun(runID, req)
	if err != nil {
		zap.L().Error("Failed to complete run", zap.String("run_id", runID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to complete run"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Run not found"})
		return
	}

	redis.InvalidateRuns()

	run, err := repository.GetRun(runID)
	if err != nil || run == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Run completed"})
		return
	}

	zap.L().Info("Run completed",
		zap.String("run_id", runID.String()),
		zap.Int("total_citations", run.TotalCitations),
		zap.Float64("overall_accuracy", run.OverallAccuracy))

	c.JSON(http.StatusOK, run)
}

// DeleteRun removes a run row
func DeleteRun(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	deleted, err := repository.DeleteRun(runID)
	if err != nil {
		zap.L().Error("Failed to delete run", zap.String("run_id", runID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete run"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Run not found"})
		return
	}

	redis.InvalidateRuns()

	c.JSON(http.StatusOK, gin.H{"message": "Run deleted"})
}

// parseRunID validates the run_id path parameter before any database access
func parseRunID(c *gin.Context) (uuid.UUID, bool) {
	runID, err := uuid.Parse(c.Param("run_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid run ID"})
		return uuid.Nil, false
	}
	return runID, true
}

// fillCountersFromResults derives any counters the caller left unset from
// the posted results, when those parse as typed example records. Results
// that do not match the typed shape are stored as-is and the counters stay
// whatever the caller supplied.
func fillCountersFromResults(req *model.RunCompletion) {
	if req.Results == nil {
		return
	}
	if req.TotalExamples != nil && req.TotalCitations != nil &&
		req.ValidCitations != nil && req.MisusedCitations != nil &&
		req.HallucinatedCitations != nil && req.OverallAccuracy != nil {
		return
	}

	encoded, err := json.Marshal(req.Results)
	if err != nil {
		return
	}
	var typed []model.ExampleResult
	if err := json.Unmarshal(encoded, &typed); err != nil {
		return
	}

	summary := service.Summarize(typed)

	if req.TotalExamples == nil {
		req.TotalExamples = &summary.TotalExamples
	}
	if req.TotalCitations == nil {
		req.TotalCitations = &summary.TotalCitations
	}
	if req.ValidCitations == nil {
		req.ValidCitations = &summary.ValidCitations
	}
	if req.MisusedCitations == nil {
		req.MisusedCitations = &summary.MisusedCitations
	}
	if req.HallucinatedCitations == nil {
		req.HallucinatedCitations = &summary.HallucinatedCitations
	}
	if req.OverallAccuracy == nil {
		req.OverallAccuracy = &summary.OverallAccuracy
	}
}
