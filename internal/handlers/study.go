package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
	"github.com/theodore333/vayne-study-sub002/internal/platform/logger"
	"github.com/theodore333/vayne-study-sub002/internal/services"
)

// StudyHandler exposes the computation endpoints. The caller posts its full
// snapshot with every request; nothing is persisted server side.
type StudyHandler struct {
	log      *logger.Logger
	studySvc services.StudyService
}

func NewStudyHandler(log *logger.Logger, studySvc services.StudyService) *StudyHandler {
	return &StudyHandler{
		log:      log.With("handler", "StudyHandler"),
		studySvc: studySvc,
	}
}

type reconcileRequest struct {
	Snapshot services.Snapshot  `json:"snapshot"`
	Tasks    []domain.DailyTask `json:"tasks"`
}

func bindSnapshot(c *gin.Context) (services.Snapshot, bool) {
	var snap services.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_snapshot", err)
		return snap, false
	}
	return snap, true
}

// seedParam reads the optional ?seed= query; absent means time-based.
func seedParam(c *gin.Context) int64 {
	raw := c.Query("seed")
	if raw == "" {
		return time.Now().UnixNano()
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Now().UnixNano()
	}
	return seed
}

// POST /api/dashboard
// Compute progress, attention list, exam outlook and session stats.
func (h *StudyHandler) Dashboard(c *gin.Context) {
	snap, ok := bindSnapshot(c)
	if !ok {
		return
	}
	view, err := h.studySvc.Dashboard(c.Request.Context(), snap)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/predictions
// Grade predictions with Monte Carlo simulation for every subject.
func (h *StudyHandler) Predictions(c *gin.Context) {
	snap, ok := bindSnapshot(c)
	if !ok {
		return
	}
	set, err := h.studySvc.Predictions(c.Request.Context(), snap, seedParam(c))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, set)
}

// POST /api/predictions/:subjectId
func (h *StudyHandler) SubjectPrediction(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_subject_id", err)
		return
	}
	snap, ok := bindSnapshot(c)
	if !ok {
		return
	}
	pred, err := h.studySvc.SubjectPrediction(c.Request.Context(), snap, subjectID, seedParam(c))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, pred)
}

// POST /api/reviews/due
// Retention-ordered review queue across all subjects.
func (h *StudyHandler) DueReviews(c *gin.Context) {
	snap, ok := bindSnapshot(c)
	if !ok {
		return
	}
	due, err := h.studySvc.DueReviews(c.Request.Context(), snap)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, due)
}

// POST /api/plan/today
func (h *StudyHandler) TodayPlan(c *gin.Context) {
	snap, ok := bindSnapshot(c)
	if !ok {
		return
	}
	plan, err := h.studySvc.TodayPlan(c.Request.Context(), snap)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, plan)
}

// POST /api/plan/reconcile
// Validate an externally stored task list against the current snapshot.
func (h *StudyHandler) ReconcilePlan(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tasks, err := h.studySvc.Reconcile(c.Request.Context(), req.Snapshot, req.Tasks)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, tasks)
}
