package handlers

import (
	"context"
	"fmt"
	"net/http"

	"ecofix/models"
	"ecofix/services/booking"
	"ecofix/services/receipt"
	"ecofix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service  booking.BookingService
	Receipts *receipt.Generator
}

func NewBookingHandler(service booking.BookingService, receipts *receipt.Generator) *BookingHandler {
	return &BookingHandler{Service: service, Receipts: receipts}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBookingsHandler handles GET /api/bookings?status=.
func (h *BookingHandler) GetBookingsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	status := models.BookingStatus(c.Query("status"))
	bookings, err := h.Service.GetBookingsForUser(c.Request.Context(), user.ID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, ok := h.ownedBooking(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetProviderBookingsHandler handles GET /api/providers/:id/bookings. Callers
// see the provider's occupied slots, never the bookings behind them.
func (h *BookingHandler) GetProviderBookingsHandler(c *gin.Context) {
	bookings, err := h.Service.GetBookingsForProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	slots := make([]models.BookingSlot, 0, len(bookings))
	for _, b := range bookings {
		slots = append(slots, b.Slot())
	}
	c.JSON(http.StatusOK, gin.H{"bookings": slots})
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	h.transition(c, "cancel", h.Service.CancelBooking)
}

func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	h.transition(c, "complete", h.Service.CompleteBooking)
}

func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	h.transition(c, "confirm", h.Service.ConfirmBooking)
}

// PayBookingHandler handles POST /api/bookings/:id/pay.
func (h *BookingHandler) PayBookingHandler(c *gin.Context) {
	b, ok := h.ownedBooking(c)
	if !ok {
		return
	}
	var details models.PaymentDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		badRequest(c, err)
		return
	}

	paid, err := h.Service.ProcessPayment(c.Request.Context(), b.ID, details)
	if err != nil {
		respondError(c, err)
		return
	}
	if !paid {
		respondError(c, booking.ErrBookingNotFound)
		return
	}
	h.respondFresh(c, b.ID)
}

// ReceiptHandler handles GET /api/bookings/:id/receipt. ?format=json returns
// the invoice instead of the PDF.
func (h *BookingHandler) ReceiptHandler(c *gin.Context) {
	b, ok := h.ownedBooking(c)
	if !ok {
		return
	}

	if c.Query("format") == "json" {
		inv, err := h.Receipts.InvoiceFor(*b)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, inv)
		return
	}

	data, inv, err := h.Receipts.Render(*b)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%s.pdf", inv.InvoiceID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// transition applies a status change to one of the caller's bookings and
// returns the updated booking.
func (h *BookingHandler) transition(c *gin.Context, action string, apply func(context.Context, string) (bool, error)) {
	b, ok := h.ownedBooking(c)
	if !ok {
		return
	}

	changed, err := apply(c.Request.Context(), b.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !changed {
		respondError(c, booking.ErrBookingNotFound)
		return
	}
	getLogger(c).Debug("Booking updated", zap.String("bookingId", b.ID), zap.String("action", action))
	h.respondFresh(c, b.ID)
}

// ownedBooking loads the :id booking and hides bookings of other users.
func (h *BookingHandler) ownedBooking(c *gin.Context) (*models.Booking, bool) {
	user, ok := requireUser(c)
	if !ok {
		return nil, false
	}
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if b.UserID != user.ID {
		utils.JSONError(c, http.StatusNotFound, "Not found", booking.ErrBookingNotFound.Error())
		return nil, false
	}
	return b, true
}

func (h *BookingHandler) respondFresh(c *gin.Context, id string) {
	b, err := h.Service.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
