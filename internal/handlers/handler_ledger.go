package handlers

import (
	"net/http"
	"time"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// ledgerHandler handles HTTP requests for read-side ledger reports.
type ledgerHandler struct {
	ledgerQueryService portssvc.LedgerQuerySvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ledgerQueryService portssvc.LedgerQuerySvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerQueryService: ledgerQueryService}
}

// getGeneralLedger godoc
// @Summary Get the general ledger of an account
// @Description Returns ledger lines ordered by (date, posting sequence) plus a whole-window summary
// @Tags reports
// @Produce  json
// @Param   accountId query string true "Account ID"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   pageSize query int false "Page size"
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.GeneralLedgerResponse
// @Failure 400 {object} map[string]string "Malformed filters"
// @Router /general-ledger [get]
func (h *ledgerHandler) getGeneralLedger(c *gin.Context) {
	var params dto.LedgerQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerQueryService.GetLedgerEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Returns every account's opening, period and ending balances as of a date
// @Tags reports
// @Produce  json
// @Param   asOf query string true "As-of date (YYYY-MM-DD)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Malformed filters"
// @Router /trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	asOfStr := c.Query("asOf")
	asOf, err := time.Parse(reportDateLayout, asOfStr)
	if err != nil {
		respondError(c, apperrors.ErrInvalidQuery)
		return
	}

	report, err := h.ledgerQueryService.GetTrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getAccountActivity godoc
// @Summary Get the activity statement of an account
// @Description Returns the opening balance, every line in the range, and the ending balance
// @Tags reports
// @Produce  json
// @Param   accountId query string true "Account ID"
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountActivityResponse
// @Failure 400 {object} map[string]string "Malformed filters"
// @Router /account-activity [get]
func (h *ledgerHandler) getAccountActivity(c *gin.Context) {
	var params dto.AccountActivityParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	from, err := time.Parse(reportDateLayout, params.From)
	if err != nil {
		respondError(c, apperrors.ErrInvalidQuery)
		return
	}
	to, err := time.Parse(reportDateLayout, params.To)
	if err != nil {
		respondError(c, apperrors.ErrInvalidQuery)
		return
	}

	activity, err := h.ledgerQueryService.GetAccountActivity(c.Request.Context(), params.AccountID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountActivityResponse(activity))
}

// getPeriodComparison godoc
// @Summary Compare posting activity between two periods
// @Description Returns totals for two YYYY-MM periods and their absolute/percentage variance
// @Tags reports
// @Produce  json
// @Param   periodA query string true "First period (YYYY-MM)"
// @Param   periodB query string true "Second period (YYYY-MM)"
// @Success 200 {object} dto.PeriodComparisonResponse
// @Failure 400 {object} map[string]string "Malformed filters"
// @Router /period-comparison [get]
func (h *ledgerHandler) getPeriodComparison(c *gin.Context) {
	periodA := c.Query("periodA")
	periodB := c.Query("periodB")
	if periodA == "" || periodB == "" {
		respondError(c, apperrors.ErrInvalidQuery)
		return
	}

	comparison, err := h.ledgerQueryService.GetPeriodComparison(c.Request.Context(), periodA, periodB)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodComparisonResponse(comparison))
}

// RegisterLedgerRoutes registers read-side report routes
func RegisterLedgerRoutes(group *gin.RouterGroup, ledgerQueryService portssvc.LedgerQuerySvcFacade) {
	h := newLedgerHandler(ledgerQueryService)

	group.GET("/general-ledger", h.getGeneralLedger)
	group.GET("/trial-balance", h.getTrialBalance)
	group.GET("/account-activity", h.getAccountActivity)
	group.GET("/period-comparison", h.getPeriodComparison)
}
