package handlers

import (
	"net/http"

	"ecofix/models"
	"ecofix/services/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct{}

func NewPaymentHandler() *PaymentHandler {
	return &PaymentHandler{}
}

type cardInfoRequest struct {
	CardNumber string `json:"cardNumber" binding:"required"`
}

// CardInfoHandler handles POST /api/payments/card-info. The raw number is
// never echoed back.
func (h *PaymentHandler) CardInfoHandler(c *gin.Context) {
	var req cardInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CardInfo{
		Masked:    payment.MaskCardNumber(req.CardNumber),
		Formatted: payment.FormatCardNumber(req.CardNumber),
		Brand:     payment.DetectCardType(req.CardNumber),
		Valid:     payment.ValidateCardNumber(req.CardNumber),
	})
}
