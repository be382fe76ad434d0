package webex

// Message is the subset of a Webex message this service reads.
type Message struct {
	// ID is the Webex identifier of the message.
	ID string `json:"id"`
	// RoomID is the room the message was posted in.
	RoomID string `json:"roomId"`
	// PersonEmail is the email of the sender.
	PersonEmail string `json:"personEmail"`
	// Text is the plain-text body of the message.
	Text string `json:"text"`
}

// Webhook is a webhook registration as returned by the Webex API.
type Webhook struct {
	// ID is the Webex identifier of the registration.
	ID string `json:"id"`
	// Name is the registration name; it doubles as the idempotency key.
	Name string `json:"name"`
	// TargetURL is the callback URL Webex delivers events to.
	TargetURL string `json:"targetUrl"`
	// Resource is the resource type being watched (e.g. "messages").
	Resource string `json:"resource"`
	// Event is the event type being watched (e.g. "created").
	Event string `json:"event"`
}

type webhookList struct {
	Items []Webhook `json:"items"`
}

type createWebhookRequest struct {
	Name      string `json:"name"`
	TargetURL string `json:"targetUrl"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
}

type sendMessageRequest struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}
