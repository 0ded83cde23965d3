package models

// PaymentDetails is the card data collected by the payment step. It is never persisted.
type PaymentDetails struct {
	CardholderName string  `json:"cardholderName"`
	CardNumber     string  `json:"cardNumber"`
	ExpiryDate     string  `json:"expiryDate"` // MM/YY
	CVV            string  `json:"cvv"`
	Amount         float64 `json:"amount"`
}

// PaymentResult is the outcome of a single gateway attempt.
type PaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Error         string `json:"error,omitempty"`
}

// CardInfo is the display-safe view of a card number.
type CardInfo struct {
	Masked    string `json:"masked"`
	Formatted string `json:"formatted"`
	Brand     string `json:"brand"`
	Valid     bool   `json:"valid"`
}
