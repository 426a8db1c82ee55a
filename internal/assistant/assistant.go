// Package assistant produces shopper and seller copy through Gemini. Every
// operation degrades to a fixed text when the model cannot be reached.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"lumina-commerce/internal/domain"
)

const (
	fallbackChat        = "I'm currently resting. Please try again in a moment."
	fallbackChatEmpty   = "I'm sorry, I encountered an issue processing your request."
	fallbackInsights    = "Inventory levels are healthy. Consider a promotion on 'Home' category items to boost mid-week sales."
	fallbackDescription = "Crafted with precision and elegance, this piece embodies the pinnacle of modern luxury."
	fallbackCampaign    = "Failed to generate campaign. Please ensure product name and goal are specified."
	fallbackEmail       = "Subject: Your Curated Collection Awaits\n\nBody: We noticed you left something exquisite behind. Your selection is being held in our private reserve."
	fallbackSupport     = "Thank you for contacting Lumina Luxe. We have received your inquiry and our concierge team is reviewing it with the utmost care."
)

const (
	sellerSystem      = "You are Lumina Seller Insights, a data-driven consultant for boutique sellers on Lumina Luxe.\nAnalyze sales patterns and provide strategic advice on pricing, inventory, and market trends.\nAlways be encouraging but analytical."
	copywriterSystem  = "You are a professional luxury copywriter for Lumina Luxe."
	marketingSystem   = "You are an Elite Digital Marketing Strategist for Lumina Luxe. You specialize in high-conversion luxury brand storytelling."
	crmSystem         = "You are a Senior CRM Copywriter specializing in luxury lifestyle brands. You create deep emotional connections with high-net-worth customers."
	conciergeSystem   = "You are the Head of Concierge at Lumina Luxe, providing world-class support for elite clients."
	insightsPrompt    = "Analyze the current catalog and sales (%s) and provide a 2-sentence strategic tip for the seller."
	recommendationsOf = "Based on these items in the cart: %s, suggest 2 other products from our catalog that would complement them. Return ONLY the product names as a JSON array."
)

type generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

type catalog interface {
	List(ctx context.Context, category, search string) ([]domain.Product, error)
}

type Service struct {
	client  generator
	catalog catalog
	logger  *log.Logger
}

func New(client generator, catalog catalog, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{client: client, catalog: catalog, logger: logger}
}

// Turn is one prior chat message. Role is "user" or "model".
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type ChatReply struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Chat answers a shopper message in the context of the conversation so far.
func (s *Service) Chat(ctx context.Context, message string, history []Turn) ChatReply {
	products, err := s.catalog.List(ctx, "", "")
	if err != nil {
		s.logger.Printf("assistant: chat catalog error=%v", err)
		return ChatReply{Text: fallbackChat, Sources: []Source{}}
	}

	contents := make([]Content, 0, len(history)+1)
	for _, h := range history {
		role := "user"
		if h.Role == "model" {
			role = "model"
		}
		contents = append(contents, Content{Role: role, Parts: []Part{{Text: h.Text}}})
	}
	contents = append(contents, Content{Role: "user", Parts: []Part{{Text: message}}})

	resp, err := s.client.Generate(ctx, Request{
		System:       shopperSystem(products),
		Contents:     contents,
		GoogleSearch: true,
	})
	if err != nil {
		return ChatReply{Text: fallbackChat, Sources: []Source{}}
	}
	reply := ChatReply{Text: resp.Text, Sources: resp.Sources}
	if reply.Text == "" {
		reply.Text = fallbackChatEmpty
	}
	if reply.Sources == nil {
		reply.Sources = []Source{}
	}
	return reply
}

// SellerInsights returns a short strategic tip based on the current catalog.
func (s *Service) SellerInsights(ctx context.Context) string {
	products, err := s.catalog.List(ctx, "", "")
	if err != nil {
		return fallbackInsights
	}
	prompt := fmt.Sprintf(insightsPrompt, catalogSignals(products))
	return s.text(ctx, UserPrompt(sellerSystem, prompt), fallbackInsights)
}

func (s *Service) ProductDescription(ctx context.Context, title, price, category string) string {
	prompt := fmt.Sprintf("Write a premium, elegant product description (approx 3 sentences) for a product named %q in the category %q priced at ₹%s. The tone should be luxury e-commerce.", title, category, price)
	return s.text(ctx, UserPrompt(copywriterSystem, prompt), fallbackDescription)
}

func (s *Service) MarketingCreative(ctx context.Context, productName, goal, vibe string) string {
	prompt := fmt.Sprintf("Create a high-end marketing campaign for %q.\nGoal: %s.\nVibe: %s.\nProvide: 1) A catchy luxury headline, 2) Instagram caption with hashtags, 3) A personalized email subject line.\nReturn as a clean text block.", productName, goal, vibe)
	return s.text(ctx, UserPrompt(marketingSystem, prompt), fallbackCampaign)
}

func (s *Service) EmailAutomation(ctx context.Context, trigger, name string) string {
	prompt := fmt.Sprintf("Generate a high-end, luxury e-commerce email for the trigger: %q.\nSequence Name: %q.\nThe tone should be sophisticated, exclusive, and concierge-like.\nProvide:\n1. A compelling subject line\n2. An elegant body copy (approx 100 words)\n3. A clear call to action.", trigger, name)
	return s.text(ctx, UserPrompt(crmSystem, prompt), fallbackEmail)
}

func (s *Service) SupportReply(ctx context.Context, customerName, message string) string {
	prompt := fmt.Sprintf("Generate a professional, empathetic, and premium response for Lumina Luxe customer support.\nCustomer Name: %s\nCustomer Message: %q\nTone: Sophisticated, luxury concierge style. Keep it under 100 words.", customerName, message)
	return s.text(ctx, UserPrompt(conciergeSystem, prompt), fallbackSupport)
}

// Recommendations suggests catalog products that complement items. Names the
// model returns that are not in the catalog are ignored. An empty cart yields
// no suggestions without calling the model.
func (s *Service) Recommendations(ctx context.Context, items []domain.CartItem) []domain.Product {
	out := []domain.Product{}
	if len(items) == 0 {
		return out
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}

	req := UserPrompt("", fmt.Sprintf(recommendationsOf, strings.Join(names, ", ")))
	req.JSONSchema = map[string]any{
		"type":  "ARRAY",
		"items": map[string]any{"type": "STRING"},
	}
	resp, err := s.client.Generate(ctx, req)
	if err != nil {
		return out
	}
	var suggested []string
	text := resp.Text
	if strings.TrimSpace(text) == "" {
		text = "[]"
	}
	if err := json.Unmarshal([]byte(text), &suggested); err != nil {
		s.logger.Printf("assistant: recommendations decode error=%v", err)
		return out
	}
	wanted := make(map[string]bool, len(suggested))
	for _, name := range suggested {
		wanted[name] = true
	}

	products, err := s.catalog.List(ctx, "", "")
	if err != nil {
		return out
	}
	for _, p := range products {
		if wanted[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) text(ctx context.Context, req Request, fallback string) string {
	resp, err := s.client.Generate(ctx, req)
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		return fallback
	}
	return resp.Text
}

func shopperSystem(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("You are Lumina, an ultra-intelligent AI shopping assistant for Lumina Luxe.\n")
	b.WriteString("Your goal is to help users find the perfect products based on their needs, style, and preferences.\n\n")
	b.WriteString("Available Products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (₹%s): %s (Category: %s)\n", p.Name, p.Price.String(), p.Description, p.Category)
	}
	b.WriteString("\nGuidelines:\n")
	b.WriteString("1. Be professional, elegant, and helpful.\n")
	b.WriteString("2. If a user describes a situation (e.g., \"going on a trip\"), suggest appropriate products from the list.\n")
	b.WriteString("3. If the user asks about trends outside the catalog, use Google Search to provide context.\n")
	return b.String()
}

// catalogSignals summarises the best seller and any low-stock products.
func catalogSignals(products []domain.Product) string {
	var signals []string
	var top *domain.Product
	for i := range products {
		p := &products[i]
		if p.Sales > 0 && (top == nil || p.Sales > top.Sales) {
			top = p
		}
		if p.Stock != nil && *p.Stock < 5 {
			signals = append(signals, fmt.Sprintf("%s has low stock", p.Name))
		}
	}
	if top != nil {
		signals = append([]string{fmt.Sprintf("%s are trending", top.Name)}, signals...)
	}
	if len(signals) == 0 {
		return fmt.Sprintf("%d products listed, no standout sellers yet", len(products))
	}
	return strings.Join(signals, ", ")
}
