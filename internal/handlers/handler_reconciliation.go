package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
	"github.com/bizsuite/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests for reconciliation sessions.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: reconciliationService}
}

// startReconciliation godoc
// @Summary Start a reconciliation session
// @Description Opens a pending session for an account and statement period
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   reconciliation body dto.StartReconciliationRequest true "Session details"
// @Success 201 {object} dto.ReconciliationResponse
// @Failure 409 {object} map[string]string "An uncompleted session already exists"
// @Router /reconciliations [post]
func (h *reconciliationHandler) startReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StartReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for startReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.reconciliationService.StartReconciliation(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Warn("Failed to start reconciliation", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(rec))
}

// getReconciliation godoc
// @Summary Get a reconciliation session
// @Description Retrieves a session with its cleared line ids
// @Tags reconciliations
// @Produce  json
// @Param   reconciliationID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Router /reconciliations/{reconciliationID} [get]
func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	reconciliationID := c.Param("reconciliationID")

	rec, err := h.reconciliationService.GetReconciliationByID(c.Request.Context(), reconciliationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// listReconciliations godoc
// @Summary List reconciliation sessions of an account
// @Description Lists sessions newest first
// @Tags reconciliations
// @Produce  json
// @Param   accountId query string true "Account ID"
// @Param   limit query int false "Page size"
// @Param   offset query int false "Offset"
// @Success 200 {object} dto.ListReconciliationsResponse
// @Router /reconciliations [get]
func (h *reconciliationHandler) listReconciliations(c *gin.Context) {
	accountID := c.Query("accountId")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountId is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	recs, err := h.reconciliationService.ListReconciliationsByAccount(c.Request.Context(), accountID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListReconciliationsResponse{Reconciliations: dto.ToReconciliationResponses(recs)})
}

// clearLines godoc
// @Summary Mark ledger lines cleared
// @Description Replaces the cleared line set and recomputes the difference
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   lines body dto.ClearLinesRequest true "Ledger line ids"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 409 {object} map[string]string "Session is closed"
// @Router /reconciliations/{reconciliationID}/clear-lines [patch]
func (h *reconciliationHandler) clearLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("reconciliationID")

	var req dto.ClearLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for clearLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.reconciliationService.MarkCleared(c.Request.Context(), reconciliationID, req.LedgerLineIDs, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// completeReconciliation godoc
// @Summary Complete a reconciliation session
// @Description Closes the session; fails when the difference is not zero
// @Tags reconciliations
// @Produce  json
// @Param   reconciliationID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 422 {object} map[string]string "Difference is not zero"
// @Router /reconciliations/{reconciliationID}/complete [post]
func (h *reconciliationHandler) completeReconciliation(c *gin.Context) {
	reconciliationID := c.Param("reconciliationID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.reconciliationService.CompleteReconciliation(c.Request.Context(), reconciliationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// forceComplete godoc
// @Summary Force-complete a reconciliation session
// @Description Closes the session as a discrepancy with a mandatory explanation
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   notes body dto.ForceCompleteRequest true "Explanation"
// @Success 200 {object} dto.ReconciliationResponse
// @Router /reconciliations/{reconciliationID}/force-complete [post]
func (h *reconciliationHandler) forceComplete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("reconciliationID")

	var req dto.ForceCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for forceComplete", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.reconciliationService.ForceComplete(c.Request.Context(), reconciliationID, req.Notes, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// RegisterReconciliationRoutes registers reconciliation specific routes
func RegisterReconciliationRoutes(group *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	recs := group.Group("/reconciliations")
	{
		recs.POST("", h.startReconciliation)
		recs.GET("", h.listReconciliations)
		recs.GET("/:reconciliationID", h.getReconciliation)
		recs.PATCH("/:reconciliationID/clear-lines", h.clearLines)
		recs.POST("/:reconciliationID/complete", h.completeReconciliation)
		recs.POST("/:reconciliationID/force-complete", h.forceComplete)
	}
}
