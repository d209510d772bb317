package chat

import (
	"encoding/json"
	"log"
	"net"
	"net/http"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
	"github.com/apexcoders/smart-agriculture-backend/auth"
	"github.com/apexcoders/smart-agriculture-backend/ratelimit"
)

// cooldownMessage is returned with the 429 when a client is inside its window.
const cooldownMessage = "Please wait 5 seconds between messages to avoid overloading the assistant."

// ChatRequest is the chat request payload. The username is accepted for
// logging only; rate limiting is keyed by network address, not user identity.
type ChatRequest struct {
	Message  string `json:"message" example:"What crops should I plant?"`
	Username string `json:"username,omitempty" example:"alice"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Success  bool   `json:"success" example:"true"`
	Response string `json:"response"`
}

// Handlers wraps the chat Service and the cooldown gate.
type Handlers struct {
	service *Service
	limiter *ratelimit.Cooldown
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service, limiter *ratelimit.Cooldown) *Handlers {
	return &Handlers{service: service, limiter: limiter}
}

// HandleChat godoc
// @Summary AI farm assistant chat
// @Description Answers a chat message, proxying recommendation questions to the ML engine.
// @Tags Chat
// @Accept json
// @Produce json
// @Param chatBody body chat.ChatRequest true "Chat message"
// @Success 200 {object} chat.ChatResponse "Assistant reply"
// @Failure 429 {object} apperror.ErrorResponse "Cooldown active"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /api/chat [post]
func (h *Handlers) HandleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The cooldown is checked before the body is read, so a throttled
		// client costs no more than the check itself.
		if !h.limiter.Allow(clientKey(r)) {
			auth.WriteError(w, r, apperror.NewRateLimitedError(cooldownMessage, nil))
			return
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.Message == "" {
			auth.WriteError(w, r, apperror.NewBadRequestError("message is required", nil))
			return
		}

		if req.Username != "" {
			log.Printf("Chat message from %q", req.Username)
		}

		reply := h.service.Reply(r.Context(), req.Message)
		auth.WriteJSON(w, http.StatusOK, ChatResponse{Success: true, Response: reply})
	}
}

// clientKey derives the rate-limiting key from the requester's network
// address. The RealIP middleware has already rewritten RemoteAddr from proxy
// headers where present. This is a client identity, not a verified user
// identity.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RealIP leaves a bare IP without a port.
		return r.RemoteAddr
	}
	return host
}
