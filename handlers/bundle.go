package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Bookings      *BookingHandler
	Reviews       *ReviewHandler
	Payments      *PaymentHandler
	Checkout      *CheckoutHandler
	Notifications *NotificationHandler
}
