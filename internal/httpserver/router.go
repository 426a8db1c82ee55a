package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"lumina-commerce/internal/assistant"
	"lumina-commerce/internal/cart"
	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/order"
	cartsvc "lumina-commerce/internal/service/cart"
	categorysvc "lumina-commerce/internal/service/category"
	checkoutsvc "lumina-commerce/internal/service/checkout"
	"lumina-commerce/internal/service/session"
	trackingsvc "lumina-commerce/internal/service/tracking"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productService interface {
	List(ctx context.Context, category, search string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type categoryService interface {
	List(ctx context.Context) ([]categorysvc.Summary, error)
}

type sessionService interface {
	Issue(ctx context.Context) (string, *session.Session, error)
	LookupByToken(ctx context.Context, token string) (*session.Session, error)
	TTLSeconds() int
}

type cartService interface {
	Get(store *cart.Store) cart.Snapshot
	Add(ctx context.Context, store *cart.Store, in cartsvc.AddInput) (cart.Snapshot, error)
	UpdateQuantity(store *cart.Store, productID string, in cartsvc.UpdateInput) cart.Snapshot
	Remove(store *cart.Store, productID string) cart.Snapshot
	Clear(store *cart.Store) cart.Snapshot
}

type checkoutService interface {
	Checkout(ctx context.Context, store checkoutsvc.CartStore, in checkoutsvc.Input) (*domain.Order, error)
}

type trackingService interface {
	Lookup(ctx context.Context, orderID string) (order.Result, error)
	AppendEvent(ctx context.Context, orderID string, in trackingsvc.EventInput) (order.Result, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
}

type assistantService interface {
	Chat(ctx context.Context, message string, history []assistant.Turn) assistant.ChatReply
	Recommendations(ctx context.Context, items []domain.CartItem) []domain.Product
	SellerInsights(ctx context.Context) string
	ProductDescription(ctx context.Context, title, price, category string) string
	MarketingCreative(ctx context.Context, productName, goal, vibe string) string
	EmailAutomation(ctx context.Context, trigger, name string) string
	SupportReply(ctx context.Context, customerName, message string) string
}

// Deps carries the services the router mounts.
type Deps struct {
	ProductSvc   productService
	CategorySvc  categoryService
	SessionSvc   sessionService
	CartSvc      cartService
	CheckoutSvc  checkoutService
	TrackingSvc  trackingService
	AssistantSvc assistantService

	CORSOrigins []string
	// SellerTokenHash is a bcrypt hash guarding /seller routes. Empty leaves them open.
	SellerTokenHash string
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("product service required")
	case d.CategorySvc == nil:
		return errors.New("category service required")
	case d.SessionSvc == nil:
		return errors.New("session service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service required")
	case d.TrackingSvc == nil:
		return errors.New("tracking service required")
	case d.AssistantSvc == nil:
		return errors.New("assistant service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, pool *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(pool))
	router.GET("/health/db", dbHealthHandler(pool))

	router.POST("/sessions", createSessionHandler(deps.SessionSvc))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))
	router.GET("/categories", listCategoriesHandler(deps.CategorySvc))

	router.GET("/orders/:id/tracking", trackOrderHandler(deps.TrackingSvc))
	router.POST("/assistant/chat", chatHandler(deps.AssistantSvc))

	shopper := router.Group("/", sessionMiddleware(deps.SessionSvc))
	shopper.GET("/cart", getCartHandler(deps.CartSvc))
	shopper.POST("/cart/items", addCartItemHandler(deps.CartSvc))
	shopper.PATCH("/cart/items/:id", updateCartItemHandler(deps.CartSvc))
	shopper.DELETE("/cart/items/:id", removeCartItemHandler(deps.CartSvc))
	shopper.DELETE("/cart", clearCartHandler(deps.CartSvc))
	shopper.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
	shopper.POST("/tracking/lookups", submitLookupHandler())
	shopper.GET("/tracking/lookups/latest", latestLookupHandler())
	shopper.POST("/assistant/recommendations", recommendationsHandler(deps.AssistantSvc))

	seller := router.Group("/seller", sellerAuthMiddleware(deps.SellerTokenHash))
	seller.GET("/orders", recentOrdersHandler(deps.TrackingSvc))
	seller.POST("/orders/:id/events", appendEventHandler(deps.TrackingSvc))
	seller.GET("/insights", insightsHandler(deps.AssistantSvc))
	seller.POST("/descriptions", descriptionHandler(deps.AssistantSvc))
	seller.POST("/campaigns", campaignHandler(deps.AssistantSvc))
	seller.POST("/emails", emailHandler(deps.AssistantSvc))
	seller.POST("/support-replies", supportReplyHandler(deps.AssistantSvc))

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
