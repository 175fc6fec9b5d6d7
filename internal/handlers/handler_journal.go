package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
	"github.com/bizsuite/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for the journal entry lifecycle.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// createDraft godoc
// @Summary Create a draft journal entry
// @Description Creates a mutable draft entry; balance is enforced at posting, not here
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /journal-entries [post]
func (h *journalHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.CreateDraft(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Warn("Failed to create draft entry", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves one entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first with token-based pagination
// @Tags journal-entries
// @Produce  json
// @Param   status query string false "Entry status (DRAFT, POSTED, VOID)"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateDraft godoc
// @Summary Update a draft journal entry
// @Description Replaces mutable fields of a draft; posted and void entries are rejected
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Fields to update"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /journal-entries/{entryID} [patch]
func (h *journalHandler) updateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.UpdateDraft(c.Request.Context(), entryID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates the balance invariant and atomically writes the ledger lines
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unbalanced or empty entry"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /journal-entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		logger.Warn("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// voidEntry godoc
// @Summary Void a draft journal entry
// @Description Abandons a draft; void entries never touch the ledger
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 204 "Voided"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /journal-entries/{entryID}/void [post]
func (h *journalHandler) voidEntry(c *gin.Context) {
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.VoidEntry(c.Request.Context(), entryID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Creates and posts a mirror-image entry linked to the original
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Entry is not posted or already reversed"
// @Router /journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		logger.Warn("Failed to reverse entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// RegisterJournalRoutes registers journal entry specific routes
func RegisterJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", h.createDraft)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PATCH("/:entryID", h.updateDraft)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/void", h.voidEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}
