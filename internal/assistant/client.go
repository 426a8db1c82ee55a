package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-flash-preview"
)

// ErrNotConfigured is returned when no API key was supplied.
var ErrNotConfigured = errors.New("gemini api key not configured")

// Client calls the Gemini generateContent REST endpoint.
type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
	model   string
	logger  *log.Logger
}

func NewClient(apiKey, baseURL, model string, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		logger:  logger,
	}
}

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type generateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	Tools             []tool            `json:"tools,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content           Content `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *Source `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// Source is a web page the model grounded its answer on.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Request is one generateContent call.
type Request struct {
	System       string
	Contents     []Content
	GoogleSearch bool
	// JSONSchema, when set, asks for a JSON response matching the schema.
	JSONSchema map[string]any
}

type Response struct {
	Text    string
	Sources []Source
}

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
	}
}

func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	ctx, span := otel.Tracer("lumina-commerce/assistant").Start(ctx, "gemini.generate_content")
	defer span.End()
	span.SetAttributes(attribute.String("ai.provider", "gemini"), attribute.String("ai.model", c.model))

	if c.apiKey == "" {
		span.RecordError(ErrNotConfigured)
		return Response{}, ErrNotConfigured
	}

	body := generateRequest{Contents: req.Contents}
	if req.System != "" {
		body.SystemInstruction = &Content{Parts: []Part{{Text: req.System}}}
	}
	if req.JSONSchema != nil {
		body.GenerationConfig = &generationConfig{ResponseMimeType: "application/json", ResponseSchema: req.JSONSchema}
	}
	if req.GoogleSearch {
		body.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshal gemini request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return Response{}, fmt.Errorf("create gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.fail(span, err)
		return Response{}, fmt.Errorf("send gemini request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		c.fail(span, err)
		return Response{}, fmt.Errorf("read gemini response: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("gemini returned status %d", resp.StatusCode)
		c.fail(span, err)
		return Response{}, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		c.fail(span, err)
		return Response{}, fmt.Errorf("parse gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		err := errors.New("no candidates in gemini response")
		c.fail(span, err)
		return Response{}, err
	}

	candidate := parsed.Candidates[0]
	var out Response
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	out.Text = text.String()
	if candidate.GroundingMetadata != nil {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" && chunk.Web.Title != "" {
				out.Sources = append(out.Sources, *chunk.Web)
			}
		}
	}
	span.SetAttributes(attribute.Int("ai.response_length", len(out.Text)))
	c.logger.Printf("assistant: gemini model=%s chars=%d took=%s", c.model, len(out.Text), time.Since(start).Round(time.Millisecond))
	return out, nil
}

func (c *Client) fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Printf("assistant: gemini model=%s error=%v", c.model, err)
}
