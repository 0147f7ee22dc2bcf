package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/subletter/subletter/internal/handler/dto"
	"github.com/subletter/subletter/internal/service"
)

// SubscribeHandler handles HTTP requests for newsletter subscriptions.
type SubscribeHandler struct {
	svc          *service.SubscriptionService
	storeTimeout time.Duration
}

// NewSubscribeHandler creates a new SubscribeHandler. storeTimeout
// bounds the store work for one request; zero disables the bound.
func NewSubscribeHandler(svc *service.SubscriptionService, storeTimeout time.Duration) *SubscribeHandler {
	return &SubscribeHandler{
		svc:          svc,
		storeTimeout: storeTimeout,
	}
}

// Subscribe handles POST /subscribe-newsletter.
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !hasJSONContentType(r) {
		h.writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	req, ok := h.decodeSubscribeRequest(w, r)
	if !ok {
		return
	}
	if req.Email == nil {
		h.writeError(w, http.StatusBadRequest, "Missing required field: email")
		return
	}

	ctx := r.Context()
	if h.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.storeTimeout)
		defer cancel()
	}

	res := h.svc.Subscribe(ctx, *req.Email, req.Metadata)
	switch res.Outcome {
	case service.OutcomeSubscribed:
		writeJSON(w, http.StatusCreated, dto.SubscribeResponse{
			Success: true,
			Message: "Successfully subscribed to the newsletter",
		})
	case service.OutcomeAlreadySubscribed:
		writeJSON(w, http.StatusOK, dto.SubscribeResponse{
			Success: true,
			Message: "This email is already subscribed",
		})
	case service.OutcomeInvalidInput:
		h.writeError(w, http.StatusBadRequest, "Invalid email format")
	default:
		h.writeError(w, http.StatusInternalServerError, "Failed to process subscription")
	}
}

// decodeSubscribeRequest parses the request body. On failure it writes
// the error response itself and returns false.
//
// The body is decoded in two steps so that a non-object body ("null",
// an array, a bare string) gets its own message instead of a generic
// parse error, matching the field-level messages for bad "email" values.
func (h *SubscribeHandler) decodeSubscribeRequest(w http.ResponseWriter, r *http.Request) (dto.SubscribeRequest, bool) {
	var req dto.SubscribeRequest

	dec := json.NewDecoder(r.Body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			h.writeError(w, http.StatusBadRequest, "Request body is required")
		case errors.As(err, &maxBytes):
			h.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		default:
			h.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		}
		return req, false
	}

	// Anything after the first value makes the body invalid as a whole.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return req, false
	}

	if len(raw) == 0 || raw[0] != '{' {
		h.writeError(w, http.StatusBadRequest, "Request body must be a JSON object")
		return req, false
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "email" {
			h.writeError(w, http.StatusBadRequest, "Email must be a string")
		} else {
			h.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		}
		return req, false
	}

	return req, true
}

// hasJSONContentType reports whether the request declares a JSON body.
// Suffixed types such as application/merge-patch+json are accepted.
func hasJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// writeError writes an error response.
func (h *SubscribeHandler) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}
