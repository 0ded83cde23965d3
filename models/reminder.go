package models

// ReminderPayload is the queued job that reminds a homeowner of an upcoming booking.
type ReminderPayload struct {
	BookingID    string `json:"bookingId"`
	UserID       string `json:"userId"`
	ProviderName string `json:"providerName"`
	ServiceName  string `json:"serviceName"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}
