package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"unicode"

	"github.com/agridesk/crop-bot-api/internal/services/knowledge"
	"github.com/agridesk/crop-bot-api/internal/services/splunksender"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Messenger covers the outbound Webex calls the relay makes.
type Messenger interface {
	GetMessageText(ctx context.Context, messageID string) (string, error)
	SendMessage(ctx context.Context, roomID, text string) error
}

// AuditSender indexes one audit record per processed message.
type AuditSender interface {
	SendEvent(ctx context.Context, record splunksender.AuditRecord) error
}

const (
	statusIgnored   = "Bot's own message, ignoring"
	statusProcessed = "Message processed and response sent"

	// Keywords suggested when a lookup misses.
	suggestedCrops = "corn, rice, wheat, avocado, or potatoes"
)

// RelayController handles inbound Webex message-created events.
type RelayController struct {
	crops    knowledge.Store
	webex    Messenger
	audit    AuditSender
	botEmail string
	logger   zerolog.Logger
}

// NewRelayController creates a new RelayController.
func NewRelayController(crops knowledge.Store, webex Messenger, audit AuditSender, botEmail string, logger zerolog.Logger) *RelayController {
	return &RelayController{
		crops:    crops,
		webex:    webex,
		audit:    audit,
		botEmail: botEmail,
		logger:   logger,
	}
}

// HandleMessageEvent processes one webhook delivery end to end: validate,
// fetch the message text, look up the crop, reply in the room and index an
// audit record. The reply and the audit record are best-effort; their
// failures are logged but never change the response to the webhook caller.
func (r *RelayController) HandleMessageEvent(c *fiber.Ctx) error {
	rawPayload := bytes.Clone(c.Body())

	var payload EventPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid payload received"})
	}

	data := payload.Data
	if data.ID == "" || data.RoomID == "" || data.PersonEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid payload received"})
	}

	// The bot's own replies trigger this webhook too; answering them would
	// loop forever.
	if data.PersonEmail == r.botEmail {
		return c.JSON(StatusResponse{Status: statusIgnored})
	}

	text, err := r.webex.GetMessageText(c.Context(), data.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("messageId", data.ID).Msg("Failed to fetch message text")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Could not fetch message"})
	}

	reply, err := r.buildReply(text)
	if err != nil {
		r.logger.Error().Err(err).Msg("Crop lookup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Could not load crop data"})
	}

	if err := r.webex.SendMessage(c.Context(), data.RoomID, reply); err != nil {
		r.logger.Error().Err(err).Str("roomId", data.RoomID).Msg("Failed to send reply")
	}

	record := splunksender.AuditRecord{
		EventID: uuid.New().String(),
		Message: text,
		RoomID:  data.RoomID,
		User:    data.PersonEmail,
		Raw:     json.RawMessage(rawPayload),
	}
	if err := r.audit.SendEvent(c.Context(), record); err != nil {
		r.logger.Error().Err(err).Str("roomId", data.RoomID).Msg("Failed to index audit record")
	}

	return c.JSON(StatusResponse{Status: statusProcessed})
}

// buildReply resolves the message text against the crop store and formats the
// reply. Unknown keywords get the fallback apology listing example crops.
func (r *RelayController) buildReply(text string) (string, error) {
	key := knowledge.Normalize(text)
	desc, ok, err := r.crops.Lookup(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("Sorry, I don't have data on '%s'. Try asking about %s.", text, suggestedCrops), nil
	}
	return fmt.Sprintf("%s Info: %s", capitalize(key), desc), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
