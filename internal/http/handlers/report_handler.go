package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/nutritrack/internal/services"
)

// Today godoc
// @ID          today
// @Summary     Today's totals
// @Description Meals logged during the current local day with their rounded totals and goal progress.
// @Tags        Reports
// @Produce     json
// @Security    SessionCookie
// @Success     200  {object}  services.DayReport
// @Failure     401  {object}  handlers.ErrorResponse "Not logged in"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /days/today [get]
func (h *Handlers) Today(c *gin.Context) {
	rep, err := h.meals.Today(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, rep)
}

// Day godoc
// @ID          day
// @Summary     One day's totals
// @Tags        Reports
// @Produce     json
// @Security    SessionCookie
// @Param       date  path      string  true  "Local date (YYYY-MM-DD)"  example(2026-10-18)
// @Success     200   {object}  services.DayReport
// @Failure     400   {object}  handlers.ErrorResponse "Malformed date"
// @Failure     401   {object}  handlers.ErrorResponse "Not logged in"
// @Failure     500   {object}  handlers.ErrorResponse "Internal error"
// @Router      /days/{date} [get]
func (h *Handlers) Day(c *gin.Context) {
	rep, err := h.meals.Day(c.Request.Context(), c.Param("date"))
	if errors.Is(err, services.ErrInvalidDate) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, rep)
}

// Calendar godoc
// @ID          calendar
// @Summary     Month calendar
// @Description One bucket per local calendar day of the month, for the history calendar.
// @Tags        Reports
// @Produce     json
// @Security    SessionCookie
// @Param       month  query     string  false  "Month (YYYY-MM); defaults to the current month"  example(2026-10)
// @Success     200    {object}  services.MonthReport
// @Failure     400    {object}  handlers.ErrorResponse "Malformed month"
// @Failure     401    {object}  handlers.ErrorResponse "Not logged in"
// @Failure     500    {object}  handlers.ErrorResponse "Internal error"
// @Router      /calendar [get]
func (h *Handlers) Calendar(c *gin.Context) {
	rep, err := h.meals.Month(c.Request.Context(), c.Query("month"))
	if errors.Is(err, services.ErrInvalidDate) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "month must be YYYY-MM")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, rep)
}
