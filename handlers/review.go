package handlers

import (
	"net/http"

	"ecofix/models"
	"ecofix/services/review"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Service review.ReviewService
}

func NewReviewHandler(service review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: service}
}

// SubmitReviewHandler handles POST /api/reviews. The reviewer is always the caller.
func (h *ReviewHandler) SubmitReviewHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var sub models.ReviewSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		badRequest(c, err)
		return
	}
	sub.UserID = user.ID
	sub.UserName = user.Name
	sub.UserAvatar = user.Avatar

	created, err := h.Service.SubmitReview(c.Request.Context(), sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBookingReviewHandler handles GET /api/bookings/:id/review.
func (h *ReviewHandler) GetBookingReviewHandler(c *gin.Context) {
	r, err := h.Service.GetReviewForBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReviewHandler) GetProviderReviewsHandler(c *gin.Context) {
	reviews, err := h.Service.GetReviewsForProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) GetReviewStatsHandler(c *gin.Context) {
	stats, err := h.Service.GetReviewStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReviewHandler) GetReviewSummaryHandler(c *gin.Context) {
	summary, err := h.Service.GetReviewSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
