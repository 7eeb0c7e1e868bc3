// Package httpapi exposes text cleaning and sentiment binning over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/review_sentiment/internal/core/sentiment"
	"github.com/baditaflorin/review_sentiment/internal/ports"
)

const (
	// DefaultMaxItems caps the number of texts or ratings in a single request
	DefaultMaxItems = 10000

	// DefaultRequestTimeout bounds the work done for one request
	DefaultRequestTimeout = 30 * time.Second
)

// CleanRequest is the body of POST /clean
type CleanRequest struct {
	Texts []string `json:"texts"`
}

// CleanResponse is the reply to POST /clean
type CleanResponse struct {
	Cleaned        []string `json:"cleaned"`
	ProcessingTime string   `json:"processing_time,omitempty"`
}

// BinRequest is the body of POST /bin
type BinRequest struct {
	Ratings []float64 `json:"ratings"`
	Policy  string    `json:"policy,omitempty"`
}

// BinResponse is the reply to POST /bin
type BinResponse struct {
	Policy     string   `json:"policy"`
	Labels     []int    `json:"labels"`
	LabelNames []string `json:"label_names"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler routes and serves API requests
type Handler struct {
	logger         ports.Logger
	normalizer     ports.BatchNormalizer
	maxItems       int
	requestTimeout time.Duration
}

// NewHandler creates a handler backed by the given batch normalizer
func NewHandler(logger ports.Logger, normalizer ports.BatchNormalizer) *Handler {
	return &Handler{
		logger:         logger,
		normalizer:     normalizer,
		maxItems:       DefaultMaxItems,
		requestTimeout: DefaultRequestTimeout,
	}
}

// WithMaxItems overrides the per-request item limit
func (h *Handler) WithMaxItems(n int) *Handler {
	h.maxItems = n
	return h
}

// HandleRequest is the fasthttp request handler
func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "ReviewSentiment")

	switch string(ctx.Path()) {
	case "/health":
		h.handleHealth(ctx)
	case "/clean":
		h.handleClean(ctx)
	case "/bin":
		h.handleBin(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		h.writeJSONError(ctx, "Not found")
	}

	h.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

func (h *Handler) handleHealth(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) handleClean(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return
	}

	var req CleanRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}
	if req.Texts == nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "texts is required")
		return
	}
	if len(req.Texts) > h.maxItems {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, fmt.Sprintf("too many texts: %d > %d", len(req.Texts), h.maxItems))
		return
	}

	c, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	startTime := time.Now()
	cleaned, err := h.normalizer.NormalizeAll(c, req.Texts)
	if err != nil {
		h.logger.Error("Cleaning failed", "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			ctx.SetStatusCode(fasthttp.StatusGatewayTimeout)
		} else {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		}
		h.writeJSONError(ctx, "Cleaning failed")
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, CleanResponse{
		Cleaned:        cleaned,
		ProcessingTime: time.Since(startTime).String(),
	})
}

func (h *Handler) handleBin(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return
	}

	var req BinRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}
	if req.Policy == "" {
		req.Policy = string(sentiment.PolicyThreeClass)
	}
	if len(req.Ratings) > h.maxItems {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, fmt.Sprintf("too many ratings: %d > %d", len(req.Ratings), h.maxItems))
		return
	}

	resp, err := binRatings(req)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, resp)
}

// binRatings applies the requested policy to every rating
func binRatings(req BinRequest) (BinResponse, error) {
	policy, err := sentiment.ParsePolicy(req.Policy)
	if err != nil {
		return BinResponse{}, err
	}

	resp := BinResponse{
		Policy:     string(policy),
		Labels:     make([]int, len(req.Ratings)),
		LabelNames: make([]string, len(req.Ratings)),
	}
	for i, rating := range req.Ratings {
		if err := sentiment.ValidateRating(rating); err != nil {
			return BinResponse{}, fmt.Errorf("ratings[%d]: %w", i, err)
		}
		switch policy {
		case sentiment.PolicyBinary:
			if sentiment.IsNeutral(rating) {
				return BinResponse{}, fmt.Errorf("ratings[%d]: %w", i, sentiment.ErrNeutralRating)
			}
			label := sentiment.BinBinary(rating)
			resp.Labels[i], resp.LabelNames[i] = int(label), label.String()
		default:
			label := sentiment.BinThreeClass(rating)
			resp.Labels[i], resp.LabelNames[i] = int(label), label.String()
		}
	}
	return resp, nil
}

// writeJSONResponse writes a JSON response to the context
func (h *Handler) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Error marshaling JSON response", "error", err)
		h.writeJSONError(ctx, "Internal server error")
		return
	}
	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (h *Handler) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		h.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}
	ctx.SetBody(response)
}
