package handlers

import (
	"net/http"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/events"
	"github.com/snapserve/snapserve/internal/server/response"
	"github.com/snapserve/snapserve/internal/server/ws"
	"github.com/snapserve/snapserve/internal/storage"
)

// createFeedbackRequest is the body of POST /api/feedback.
type createFeedbackRequest struct {
	OrderID int    `json:"orderId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// HandleListFeedback returns all stored feedback, newest first.
func (h *Handlers) HandleListFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.store.ListFeedback(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, feedback)
}

// HandleCreateFeedback stores customer feedback, runs sentiment analysis on
// the comment, and alerts staff and admin when the sentiment is negative.
func (h *Handlers) HandleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createFeedbackRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		response.BadRequest(w, "Invalid data", "rating must be between 1 and 5")
		return
	}
	if req.OrderID > 0 {
		if _, err := h.store.GetOrder(ctx, req.OrderID); err != nil {
			response.FromError(w, err)
			return
		}
	}

	feedback, err := h.store.CreateFeedback(ctx, domain.Feedback{
		OrderID: req.OrderID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	analysis, err := h.assistant.AnalyzeSentiment(ctx, req.Comment)
	if err != nil {
		// The feedback itself is already stored. Skip the alert rather
		// than failing the request.
		h.logger.Warn().Err(err).Int("feedback_id", feedback.ID).Msg("Sentiment analysis failed")
		response.Created(w, feedback)
		return
	}

	feedback, err = h.store.UpdateFeedback(ctx, feedback.ID, storage.FeedbackUpdate{
		Sentiment:      &analysis.Sentiment,
		SentimentScore: &analysis.Score,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	if analysis.Sentiment == domain.SentimentNegative {
		event := events.NegativeFeedback(domain.FeedbackAlert{
			Feedback:   feedback,
			Confidence: analysis.Confidence,
			Issues:     analysis.Issues,
		})
		h.hub.Publish(event, ws.ToRole(domain.RoleStaff))
		h.hub.Publish(event, ws.ToRole(domain.RoleAdmin))
	}

	response.Created(w, feedback)
}
