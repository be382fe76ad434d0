package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/DIMO-Network/server-garage/pkg/fibercommon"
	"github.com/agridesk/crop-bot-api/internal/clients/webex"
	"github.com/agridesk/crop-bot-api/internal/config"
	"github.com/agridesk/crop-bot-api/internal/controllers/relay"
	"github.com/agridesk/crop-bot-api/internal/services/knowledge"
	"github.com/agridesk/crop-bot-api/internal/services/splunksender"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// CreateServers wires the crop store, the Webex client and the Splunk sender
// into the web server. It also performs the one-time idempotent webhook
// registration; a registration failure is logged rather than fatal so the
// relay still serves rooms whose webhook already exists.
func CreateServers(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (*fiber.App, error) {
	crops := knowledge.NewFileStore(settings.CropFile)

	webexClient, err := webex.New(settings.WebexAPIURL, settings.WebexAccessToken, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create webex client: %w", err)
	}

	var splunkClient *http.Client
	if settings.SplunkInsecureTLS {
		// Opt-in only: reproduces legacy deployments that pin a self-signed
		// HEC certificate.
		splunkClient = &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit deployment opt-in
			},
		}
	}
	auditSender := splunksender.NewSplunkSender(settings.SplunkHECURL, settings.SplunkToken, splunkClient)

	if err := webexClient.EnsureWebhookRegistered(ctx, settings.WebhookName, settings.CallbackURL); err != nil {
		logger.Error().Err(err).Str("webhook", settings.WebhookName).Msg("Failed to ensure webhook registration")
	}

	app, err := CreateFiberApp(logger, crops, webexClient, auditSender, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create fiber app: %w", err)
	}
	return app, nil
}

// CreateFiberApp sets up the API routes.
func CreateFiberApp(logger zerolog.Logger, crops knowledge.Store,
	webexClient relay.Messenger,
	auditSender relay.AuditSender,
	settings *config.Settings) (*fiber.App, error) {
	logger.Info().Msg("Starting Crop Bot API...")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fibercommon.ErrorHandler(c, err)
		},
		DisableStartupMessage: true,
	})
	app.Use(fibercommon.ContextLoggerMiddleware)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to the Crop Bot API!")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data": "Server is up and running",
		})
	})

	relayController := relay.NewRelayController(crops, webexClient, auditSender, settings.BotEmail, logger)
	logger.Info().Msg("Registering routes...")

	app.Post("/webex-webhook", relayController.HandleMessageEvent)

	return app, nil
}
