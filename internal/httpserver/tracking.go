package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"lumina-commerce/internal/order"
	trackingsvc "lumina-commerce/internal/service/tracking"

	"github.com/gin-gonic/gin"
)

// trackOrderHandler resolves an order synchronously. Unknown ids are a 200
// with status not_found, matching what the tracking page renders.
func trackOrderHandler(svc trackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Lookup(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

type lookupRequest struct {
	OrderID string `json:"orderId"`
}

type lookupStateResponse struct {
	order.ViewState
	Error     string `json:"error,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func toLookupState(st order.ViewState) lookupStateResponse {
	out := lookupStateResponse{ViewState: st}
	if st.Err != nil {
		_, out.Retryable = statusFor(st.Err)
		out.Error = st.Err.Error()
	}
	return out
}

// submitLookupHandler starts a lookup in the session's tracking view. Any
// earlier lookup still in flight is superseded.
func submitLookupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in lookupRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			abortJSON(c, http.StatusBadRequest, "invalid body")
			return
		}
		view := sessionFrom(c).Tracking
		// The lookup outlives this request.
		_, done := view.Submit(context.WithoutCancel(c.Request.Context()), in.OrderID)
		if c.Query("wait") == "true" {
			select {
			case <-done:
			case <-c.Request.Context().Done():
			}
		}

		status := http.StatusAccepted
		select {
		case <-done:
			status = http.StatusOK
		default:
		}
		st := view.State()
		if status == http.StatusOK && st.Err != nil {
			if code, _ := statusFor(st.Err); code == http.StatusBadRequest {
				status = code
			}
		}
		c.JSON(status, toLookupState(st))
	}
}

func latestLookupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toLookupState(sessionFrom(c).Tracking.State()))
	}
}

func recentOrdersHandler(svc trackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil {
			abortJSON(c, http.StatusBadRequest, "limit must be an integer")
			return
		}
		orders, err := svc.RecentOrders(c.Request.Context(), limit)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]orderResponse, 0, len(orders))
		for i := range orders {
			out = append(out, toOrderResponse(&orders[i]))
		}
		c.JSON(http.StatusOK, newList(out))
	}
}

func appendEventHandler(svc trackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in trackingsvc.EventInput
		if err := c.ShouldBindJSON(&in); err != nil {
			abortJSON(c, http.StatusBadRequest, "invalid body")
			return
		}
		res, err := svc.AppendEvent(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
