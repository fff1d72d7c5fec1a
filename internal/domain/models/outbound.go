package models

// OutboundMessageRequest is a manual WhatsApp text sent from the back office.
// An empty To falls back to the configured report recipient.
type OutboundMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message" binding:"required"`
}
