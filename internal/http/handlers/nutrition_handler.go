package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/nutritrack/internal/nutrition/calorieninjas"
	"github.com/tbourn/nutritrack/internal/services"
)

// LookupNutrition godoc
// @ID          lookupNutrition
// @Summary     Look up nutrition facts
// @Description Forwards a free-text query (e.g. "200g chicken breast and 1 cup rice") to the nutrition API.
// @Tags        Nutrition
// @Produce     json
// @Security    SessionCookie
// @Param       query  query     string  true  "Free-text ingredient query"
// @Success     200    {object}  services.LookupResult
// @Failure     400    {object}  handlers.ErrorResponse "Missing query"
// @Failure     401    {object}  handlers.ErrorResponse "Not logged in"
// @Failure     503    {object}  handlers.ErrorResponse "No API key configured"
// @Failure     502    {object}  handlers.ErrorResponse "Nutrition API failed"
// @Router      /nutrition [get]
func (h *Handlers) LookupNutrition(c *gin.Context) {
	res, err := h.nutri.Lookup(c.Request.Context(), c.Query("query"))
	if err == nil {
		ok(c, http.StatusOK, res)
		return
	}

	var apiErr *calorieninjas.APIError
	switch {
	case errors.Is(err, services.ErrEmptyQuery):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter is required")
	case errors.Is(err, services.ErrLookupUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeLookupUnavailable, err.Error())
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		fail(c, status, ErrCodeUpstream, "nutrition API returned "+http.StatusText(apiErr.StatusCode))
	case errors.Is(err, context.DeadlineExceeded):
		fail(c, http.StatusGatewayTimeout, ErrCodeUpstream, "nutrition API timed out")
	default:
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "nutrition lookup failed")
	}
}

// ListIngredients godoc
// @ID          listIngredients
// @Summary     Built-in ingredient table
// @Description Per-100g macros of the ingredients the table source resolves, in match order. With q, returns the closest spellings instead, best first.
// @Tags        Nutrition
// @Produce     json
// @Security    SessionCookie
// @Param       q      query     string  false  "Ingredient name to match"
// @Param       limit  query     int     false  "Max suggestions (1..10)"  default(3)
// @Success     200    {array}   nutrition.Ingredient
// @Failure     400    {object}  handlers.ErrorResponse "Bad limit"
// @Failure     401    {object}  handlers.ErrorResponse "Not logged in"
// @Router      /ingredients [get]
func (h *Handlers) ListIngredients(c *gin.Context) {
	limit := defaultSuggestions
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSuggestions {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit must be between 1 and 10")
			return
		}
		limit = n
	}
	ok(c, http.StatusOK, h.nutri.Ingredients(c.Query("q"), limit))
}

const (
	defaultSuggestions = 3
	maxSuggestions     = 10
)
