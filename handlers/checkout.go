package handlers

import (
	"net/http"

	"ecofix/models"
	"ecofix/services/checkout"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	Service checkout.CheckoutService
}

func NewCheckoutHandler(service checkout.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{Service: service}
}

// StartCheckoutHandler handles POST /api/checkout.
func (h *CheckoutHandler) StartCheckoutHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.Service.Start(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *CheckoutHandler) GetCheckoutHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	session, err := h.Service.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *CheckoutHandler) SelectScheduleHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var sel models.ScheduleSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.Service.SelectSchedule(c.Request.Context(), user, c.Param("id"), sel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *CheckoutHandler) ProceedHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	session, err := h.Service.Proceed(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *CheckoutHandler) BackHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	session, err := h.Service.Back(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitCheckoutHandler handles POST /api/checkout/:id/submit. A failed
// submission still returns the session so the dialog can show the retry state.
func (h *CheckoutHandler) SubmitCheckoutHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var details models.PaymentDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		badRequest(c, err)
		return
	}

	session, created, err := h.Service.Submit(c.Request.Context(), user, c.Param("id"), details)
	if err != nil {
		if session == nil {
			respondError(c, err)
			return
		}
		status, title := statusFor(err)
		c.JSON(status, gin.H{"error": title, "message": err.Error(), "session": session})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session, "booking": created})
}
