package relay

// EventPayload is the body Webex delivers for a message-created webhook event.
// The event only identifies the message; the text has to be fetched separately.
type EventPayload struct {
	Data EventData `json:"data"`
}

// EventData identifies the message that triggered the event.
type EventData struct {
	// ID is the Webex identifier of the created message.
	ID string `json:"id"`
	// RoomID is the room the message was posted in.
	RoomID string `json:"roomId"`
	// PersonEmail is the email of the sender.
	PersonEmail string `json:"personEmail"`
}

// StatusResponse reports the outcome of a processed or ignored event.
type StatusResponse struct {
	// Status is a brief human-readable outcome.
	Status string `json:"status"`
}

// ErrorResponse is returned on malformed payloads and upstream failures.
type ErrorResponse struct {
	// Error is a brief human-readable failure description.
	Error string `json:"error"`
}
