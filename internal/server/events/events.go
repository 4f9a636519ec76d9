// Package events defines the wire contract for real-time push messages
// exchanged between the server and staff/admin dashboard sessions.
//
// Every message on the channel is a flat JSON object carrying a "type"
// discriminator; the remaining fields are determined by the kind. Clients
// must accept and ignore kinds they do not recognize.
package events

import (
	"github.com/snapserve/snapserve/internal/domain"
)

// Kind is the discriminator tag on a pushed message.
type Kind string

// Kinds consumed by shipped client logic. The set is extensible: new kinds
// may be added without breaking existing clients.
const (
	// KindNewOrder announces a just-created order with its line items.
	KindNewOrder Kind = "NEW_ORDER"

	// KindOrderUpdated announces a status or detail change on an order.
	KindOrderUpdated Kind = "ORDER_UPDATED"

	// KindNegativeFeedback alerts staff to feedback with negative sentiment.
	KindNegativeFeedback Kind = "NEGATIVE_FEEDBACK"

	// KindAuth is the client-to-server identity claim sent on an already
	// open channel.
	KindAuth Kind = "AUTH"
)

// Envelope is a server-to-client event. Exactly one payload field is set,
// matching the kind; events are immutable and carry no sequence number.
type Envelope struct {
	Type     Kind                  `json:"type"`
	Order    *domain.OrderDetail   `json:"order,omitempty"`
	Feedback *domain.FeedbackAlert `json:"feedback,omitempty"`
}

// NewOrder builds a NEW_ORDER event.
func NewOrder(order domain.OrderDetail) Envelope {
	return Envelope{Type: KindNewOrder, Order: &order}
}

// OrderUpdated builds an ORDER_UPDATED event.
func OrderUpdated(order domain.OrderDetail) Envelope {
	return Envelope{Type: KindOrderUpdated, Order: &order}
}

// NegativeFeedback builds a NEGATIVE_FEEDBACK event.
func NegativeFeedback(alert domain.FeedbackAlert) Envelope {
	return Envelope{Type: KindNegativeFeedback, Feedback: &alert}
}

// AuthMessage is the client-to-server identity claim:
//
//	{"type": "AUTH", "userId": 7, "role": "staff"}
//
// No acknowledgment is defined; success is implicit.
type AuthMessage struct {
	Type   Kind        `json:"type"`
	UserID int         `json:"userId"`
	Role   domain.Role `json:"role"`
}
