package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lumina-commerce/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	resp  Response
	err   error
	calls []Request
}

func (g *stubGenerator) Generate(_ context.Context, req Request) (Response, error) {
	g.calls = append(g.calls, req)
	return g.resp, g.err
}

type stubCatalog struct {
	products []domain.Product
	err      error
}

func (c stubCatalog) List(context.Context, string, string) ([]domain.Product, error) {
	return c.products, c.err
}

func demoCatalog() stubCatalog {
	low := 2
	return stubCatalog{products: []domain.Product{
		{ID: "p1", Name: "Zenith Headphones", Price: decimal.NewFromInt(24999), Category: domain.CategoryElectronics, Sales: 120},
		{ID: "p2", Name: "Silk Dress", Price: decimal.NewFromInt(8999), Category: domain.CategoryFashion, Stock: &low, Sales: 40},
		{ID: "p3", Name: "Marble Lamp", Price: decimal.NewFromInt(4500), Category: domain.CategoryHome},
	}}
}

func TestService_ChatSendsHistoryAndCatalog(t *testing.T) {
	gen := &stubGenerator{resp: Response{Text: "Try the Zenith Headphones."}}
	svc := New(gen, demoCatalog(), nil)

	reply := svc.Chat(context.Background(), "going on a trip", []Turn{
		{Role: "user", Text: "hello"},
		{Role: "model", Text: "Welcome to Lumina Luxe"},
	})
	assert.Equal(t, "Try the Zenith Headphones.", reply.Text)
	assert.NotNil(t, reply.Sources)

	require.Len(t, gen.calls, 1)
	req := gen.calls[0]
	require.Len(t, req.Contents, 3)
	assert.Equal(t, "model", req.Contents[1].Role)
	assert.Equal(t, "going on a trip", req.Contents[2].Parts[0].Text)
	assert.True(t, req.GoogleSearch)
	assert.Contains(t, req.System, "- Silk Dress (₹8999):")
}

func TestService_Fallbacks(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota")}
	svc := New(gen, demoCatalog(), nil)
	ctx := context.Background()

	assert.Equal(t, fallbackChat, svc.Chat(ctx, "hi", nil).Text)
	assert.Equal(t, fallbackInsights, svc.SellerInsights(ctx))
	assert.Equal(t, fallbackDescription, svc.ProductDescription(ctx, "Lamp", "4500", "home"))
	assert.Equal(t, fallbackCampaign, svc.MarketingCreative(ctx, "Lamp", "launch", "calm"))
	assert.Equal(t, fallbackEmail, svc.EmailAutomation(ctx, "abandoned cart", "Winback"))
	assert.Equal(t, fallbackSupport, svc.SupportReply(ctx, "Ada", "Where is my order?"))

	empty := New(&stubGenerator{}, demoCatalog(), nil)
	assert.Equal(t, fallbackChatEmpty, empty.Chat(ctx, "hi", nil).Text)
	assert.Equal(t, fallbackSupport, empty.SupportReply(ctx, "Ada", "hello"))
}

func TestService_SellerInsightsUsesCatalogSignals(t *testing.T) {
	gen := &stubGenerator{resp: Response{Text: "Restock the Silk Dress."}}
	svc := New(gen, demoCatalog(), nil)

	assert.Equal(t, "Restock the Silk Dress.", svc.SellerInsights(context.Background()))
	require.Len(t, gen.calls, 1)
	prompt := gen.calls[0].Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Zenith Headphones are trending")
	assert.Contains(t, prompt, "Silk Dress has low stock")
	assert.True(t, strings.HasPrefix(gen.calls[0].System, "You are Lumina Seller Insights"))
}

func TestService_Recommendations(t *testing.T) {
	ctx := context.Background()
	cartItems := []domain.CartItem{{Product: domain.Product{ID: "p1", Name: "Zenith Headphones"}, Quantity: 1}}

	none := &stubGenerator{}
	assert.Empty(t, New(none, demoCatalog(), nil).Recommendations(ctx, nil))
	assert.Empty(t, none.calls)

	gen := &stubGenerator{resp: Response{Text: `["Marble Lamp", "Gold Watch"]`}}
	got := New(gen, demoCatalog(), nil).Recommendations(ctx, cartItems)
	require.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].ID)
	require.Len(t, gen.calls, 1)
	assert.NotNil(t, gen.calls[0].JSONSchema)
	assert.Contains(t, gen.calls[0].Contents[0].Parts[0].Text, "Zenith Headphones")

	bad := &stubGenerator{resp: Response{Text: "not json"}}
	assert.Empty(t, New(bad, demoCatalog(), nil).Recommendations(ctx, cartItems))
}
