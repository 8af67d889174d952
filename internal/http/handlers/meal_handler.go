// Meal log endpoints:
//   - GET    /meals       (newest first, paginated, weak ETag)
//   - POST   /meals       (log a meal)
//   - DELETE /meals/{id}  (idempotent delete)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/nutrition"
	"github.com/tbourn/nutritrack/internal/nutrition/calorieninjas"
	"github.com/tbourn/nutritrack/internal/services"
	"github.com/tbourn/nutritrack/internal/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateMealRequest is the body of POST /meals. ID and Timestamp are
// optional. The single Ingredient/Quantity form is accepted when Items is
// empty.
type CreateMealRequest struct {
	ID        string               `json:"id,omitempty" example:"3f1c9a4e-5b7d-4a8e-9c2f-1d6e8b0a7c31"`
	Timestamp *time.Time           `json:"timestamp,omitempty" example:"2026-10-18T12:30:00Z"`
	Items     []nutrition.MealItem `json:"items"`

	Ingredient string  `json:"ingredient,omitempty" example:"chicken breast"`
	Quantity   float64 `json:"quantity,omitempty" example:"200"`
}

func (r CreateMealRequest) items() []nutrition.MealItem {
	if len(r.Items) == 0 && strings.TrimSpace(r.Ingredient) != "" {
		return []nutrition.MealItem{{Ingredient: r.Ingredient, Quantity: r.Quantity}}
	}
	return r.Items
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListMealsResponse is one page of the meal history.
type ListMealsResponse struct {
	Meals      []domain.MealEntry `json:"meals"`
	Pagination Pagination         `json:"pagination"`
}

// DeleteMealResponse confirms a delete. It is returned for unknown ids too.
type DeleteMealResponse struct {
	Success   bool   `json:"success" example:"true"`
	DeletedID string `json:"deleted_id" example:"3f1c9a4e-5b7d-4a8e-9c2f-1d6e8b0a7c31"`
}

// ListMeals godoc
// @ID          listMeals
// @Summary     List logged meals
// @Description Returns the meal history newest first. Supports a weak ETag via If-None-Match.
// @Tags        Meals
// @Produce     json
// @Security    SessionCookie
// @Param       If-None-Match  header  string  false "Return 304 if the ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object} handlers.ListMealsResponse
// @Header      200  {string} ETag "Weak ETag for the current history and page"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Not logged in"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /meals [get]
func (h *Handlers) ListMeals(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := utils.ClampPage(c.Query("page"), c.Query("page_size"), defaultPageSize, maxPageSize)

	// ETag is best effort; a stats failure just skips it.
	if count, latest, err := h.meals.Stats(ctx); err == nil {
		var ts int64
		if latest != nil {
			ts = latest.UnixNano()
		}
		etag := fmt.Sprintf(`W/"meals:%d:%d:%d:%d"`, count, ts, page, pageSize)
		c.Header("ETag", etag)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	meals, total, err := h.meals.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if meals == nil {
		meals = []domain.MealEntry{}
	}
	pages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListMealsResponse{
		Meals: meals,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: pages,
			HasNext:    page < pages,
		},
	})
}

// CreateMeal godoc
// @ID          createMeal
// @Summary     Log a meal
// @Description Computes the meal's macros from its ingredient lines and appends it to the history.
// @Tags        Meals
// @Accept      json
// @Produce     json
// @Security    SessionCookie
// @Param       body  body      handlers.CreateMealRequest  true  "Meal"
// @Success     201   {object}  domain.MealEntry
// @Failure     400   {object}  handlers.ErrorResponse "Malformed meal"
// @Failure     401   {object}  handlers.ErrorResponse "Not logged in"
// @Failure     404   {object}  handlers.ErrorResponse "No ingredient resolved"
// @Failure     409   {object}  handlers.ErrorResponse "Duplicate meal id"
// @Failure     502   {object}  handlers.ErrorResponse "Nutrition API failed"
// @Failure     500   {object}  handlers.ErrorResponse "Internal error"
// @Router      /meals [post]
func (h *Handlers) CreateMeal(c *gin.Context) {
	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	e, err := h.meals.Add(c.Request.Context(), services.AddMealInput{
		ID:        req.ID,
		Timestamp: req.Timestamp,
		Items:     req.items(),
	})
	var apiErr *calorieninjas.APIError
	switch {
	case err == nil:
		ok(c, http.StatusCreated, e)
	case errors.Is(err, services.ErrNoItems),
		errors.Is(err, services.ErrInvalidItem),
		errors.Is(err, services.ErrInvalidID):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrNothingResolved):
		fail(c, http.StatusNotFound, ErrCodeNotFound, services.ErrNothingResolved.Error())
	case errors.Is(err, services.ErrDuplicateMeal):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.As(err, &apiErr):
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "nutrition lookup failed")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
	}
}

// DeleteMeal godoc
// @ID          deleteMeal
// @Summary     Delete a meal
// @Description Removes a meal by id. Deleting an unknown id also succeeds.
// @Tags        Meals
// @Produce     json
// @Security    SessionCookie
// @Param       id   path      string  true  "Meal id"
// @Success     200  {object}  handlers.DeleteMealResponse
// @Failure     401  {object}  handlers.ErrorResponse "Not logged in"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /meals/{id} [delete]
func (h *Handlers) DeleteMeal(c *gin.Context) {
	id := c.Param("id")
	err := h.meals.Delete(c.Request.Context(), id)
	switch {
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
	default:
		ok(c, http.StatusOK, DeleteMealResponse{Success: true, DeletedID: id})
	}
}
