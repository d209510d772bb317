// Package chat implements the AI farm assistant endpoint: keyword-routed
// proxying to the ML recommendation engine with a generic fallback reply.
package chat

import (
	"context"
	"log"
	"strings"

	"github.com/apexcoders/smart-agriculture-backend/mlclient"
)

// Recommender is the slice of the ML client the chat service needs.
type Recommender interface {
	Recommend(ctx context.Context, weather string) (*mlclient.Recommendation, error)
}

// keywords route a message to the recommendation engine when any of them
// appears in the message (case-insensitive substring match).
var keywords = []string{"plant", "crop", "recommend"}

const (
	// analysisPrefix wraps a successful recommendation in the reply template.
	analysisPrefix = "**🧠 ML Engine Analysis:**\n"

	// fallbackReply is returned when the message has no keyword or the
	// recommendation engine could not answer.
	fallbackReply = "I am your AI Farm Assistant! Try asking me: 'What crops should I plant?' to see my Machine Learning engine in action!"

	// defaultWeather is the fixed descriptor sent on every recommendation
	// call; the chat endpoint does not yet thread through real context.
	defaultWeather = "normal"
)

// Service produces chat replies.
type Service struct {
	ml Recommender
}

// NewService creates a chat Service with the given recommender.
func NewService(ml Recommender) *Service {
	return &Service{ml: ml}
}

// Reply computes the assistant's answer to a message. A message containing a
// recommendation keyword is routed to the ML engine; any failure of that call
// falls through to the generic reply rather than surfacing an error, so the
// chat endpoint itself never fails because the engine is down.
func (s *Service) Reply(ctx context.Context, message string) string {
	if containsKeyword(message) {
		log.Println("Routing chat to ML recommendation engine...")
		rec, err := s.ml.Recommend(ctx, defaultWeather)
		if err != nil {
			log.Printf("Chat recommendation failed, using fallback: %v", err)
		} else if rec.Success {
			return analysisPrefix + rec.Message
		}
	}
	return fallbackReply
}

// containsKeyword reports whether the message asks for a crop recommendation.
func containsKeyword(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
