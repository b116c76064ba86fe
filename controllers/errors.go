package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// respondServiceError maps domain errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var propagation *ticketing.PropagationError
	switch {
	case errors.As(err, &propagation):
		utils.RespondErrorData(c, http.StatusConflict, err, gin.H{
			"failed_order_ids": propagation.FailedOrderIDs(),
			"failures":         propagation.Failures,
		})
	case errors.Is(err, ticketing.ErrInvalidArgument):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, ticketing.ErrItemNotFound), errors.Is(err, ticketing.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, ticketing.ErrInvalidState),
		errors.Is(err, ticketing.ErrTableHasActiveOrders),
		errors.Is(err, ticketing.ErrConflictOnConcurrentWrite):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// caller is the authenticated user of a request.
type caller struct {
	UserID     uint
	Name       string
	BusinessID string
}

func currentCaller(c *gin.Context) caller {
	return caller{
		UserID:     c.GetUint(middlewares.ContextUserID),
		Name:       c.GetString(middlewares.ContextUserName),
		BusinessID: c.GetString(middlewares.ContextBusinessID),
	}
}
