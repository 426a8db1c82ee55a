package httpserver

import (
	"net/http"

	"lumina-commerce/internal/assistant"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string           `json:"message" binding:"required"`
	History []assistant.Turn `json:"history"`
}

type textResponse struct {
	Text string `json:"text"`
}

func chatHandler(svc assistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in chatRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			abortJSON(c, http.StatusBadRequest, "message required")
			return
		}
		c.JSON(http.StatusOK, svc.Chat(c.Request.Context(), in.Message, in.History))
	}
}

// recommendationsHandler suggests products that complement the session cart.
func recommendationsHandler(svc assistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := sessionFrom(c).Cart.Items()
		c.JSON(http.StatusOK, newList(svc.Recommendations(c.Request.Context(), items)))
	}
}

func insightsHandler(svc assistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, textResponse{Text: svc.SellerInsights(c.Request.Context())})
	}
}

type descriptionRequest struct {
	Title    string `json:"title" binding:"required"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

func descriptionHandler(svc assistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in descriptionRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			abortJSON(c, http.StatusBadRequest, "title required")
			return
		}
		c.JSON(http.StatusOK, textResponse{Text: svc.ProductDescription(c.Request.Context(), in.Title, in.Price, in.Category)})
	}
}

type campaignRequest struct {
	ProductName string `json:"productName" binding:"required"`
	Goal        string `json:"goal"`
	Vibe        string `json:"vibe"`
}

func campaignHandler(svc assistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in campaignRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			abortJSON(c, http.StatusBadRequest, "productName required")
			return
		}
		c.JSON(http.StatusOK, textResponse{Text: svc.MarketingCreative(c.Request.Context(), in.ProductName, in.Goal, in.Vibe)})
	}
}

type emailRequest struct {
	Trigger string `json:"trigger" binding:"required"`
	Name    string `json:"name"`
}

func emailHandler(svc assistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in emailRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			abortJSON(c, http.StatusBadRequest, "trigger required")
			return
		}
		c.JSON(http.StatusOK, textResponse{Text: svc.EmailAutomation(c.Request.Context(), in.Trigger, in.Name)})
	}
}

type supportReplyRequest struct {
	CustomerName string `json:"customerName"`
	Message      string `json:"message" binding:"required"`
}

func supportReplyHandler(svc assistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in supportReplyRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			abortJSON(c, http.StatusBadRequest, "message required")
			return
		}
		c.JSON(http.StatusOK, textResponse{Text: svc.SupportReply(c.Request.Context(), in.CustomerName, in.Message)})
	}
}
