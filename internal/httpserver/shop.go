package httpserver

import (
	"net/http"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/order"
	cartsvc "lumina-commerce/internal/service/cart"
	checkoutsvc "lumina-commerce/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

type sessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	ExpiresIn int    `json:"expiresIn"`
}

func createSessionHandler(svc sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, sess, err := svc.Issue(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sessionResponse{Token: token, SessionID: sess.ID, ExpiresIn: svc.TTLSeconds()})
	}
}

type listResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Count: len(items), Results: items}
}

func listProductsHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context(), c.Query("category"), c.Query("q"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, newList(products))
	}
}

func getProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func listCategoriesHandler(svc categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, newList(list))
	}
}

func getCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Get(sessionFrom(c).Cart))
	}
}

func addCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddInput
		if err := c.ShouldBindJSON(&in); err != nil {
			abortJSON(c, http.StatusBadRequest, "invalid body")
			return
		}
		snap, err := svc.Add(c.Request.Context(), sessionFrom(c).Cart, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func updateCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			abortJSON(c, http.StatusBadRequest, "invalid body")
			return
		}
		c.JSON(http.StatusOK, svc.UpdateQuantity(sessionFrom(c).Cart, c.Param("id"), in))
	}
}

func removeCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Remove(sessionFrom(c).Cart, c.Param("id")))
	}
}

func clearCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Clear(sessionFrom(c).Cart))
	}
}

// orderResponse is an order together with its rendered tracking timeline.
type orderResponse struct {
	*domain.Order
	Timeline []order.TimelineEntry `json:"timeline"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{Order: o, Timeline: order.ResultFromOrder(o).Timeline}
}

func checkoutHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutsvc.Input
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&in); err != nil {
				abortJSON(c, http.StatusBadRequest, "invalid body")
				return
			}
		}
		o, err := svc.Checkout(c.Request.Context(), sessionFrom(c).Cart, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toOrderResponse(o))
	}
}
