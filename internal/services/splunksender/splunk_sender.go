package splunksender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
)

const (
	// SplunkFailureCode is the code returned when the indexing call fails.
	SplunkFailureCode = -1

	// Default timeout for HEC requests
	defaultSendTimeout = 5 * time.Second
	// Maximum response body size to read for error logging
	maxResponseBodySize = 1024

	eventSourceType = "Agricultural_Bot_Data"
	eventIndex      = "agriculture"
)

// AuditRecord is one processed-message transaction as indexed in Splunk.
type AuditRecord struct {
	// EventID uniquely identifies this audit event.
	EventID string `json:"eventId"`
	// Message is the full text of the inbound message.
	Message string `json:"message"`
	// RoomID is the Webex room the message arrived in.
	RoomID string `json:"roomId"`
	// User is the email of the sender.
	User string `json:"user"`
	// Raw is the unmodified inbound webhook payload.
	Raw json.RawMessage `json:"raw"`
}

// envelope is the fixed HEC event wrapper.
type envelope struct {
	Event      AuditRecord `json:"event"`
	SourceType string      `json:"sourcetype"`
	Index      string      `json:"index"`
}

// SplunkSender delivers audit records to a Splunk HTTP Event Collector.
type SplunkSender struct {
	hecURL string
	token  string
	client *http.Client
}

// NewSplunkSender creates a new SplunkSender. A nil client gets a default
// one with the standard short timeout.
func NewSplunkSender(hecURL, token string, client *http.Client) *SplunkSender {
	if client == nil {
		client = &http.Client{
			Timeout: defaultSendTimeout,
		}
	}
	return &SplunkSender{
		hecURL: hecURL,
		token:  token,
		client: client,
	}
}

// SendEvent indexes one audit record. Delivery is at-most-once: any non-200
// response or transport failure is returned as an error and the record is
// never queued or retried.
func (s *SplunkSender) SendEvent(ctx context.Context, record AuditRecord) error {
	body, err := json.Marshal(envelope{
		Event:      record,
		SourceType: eventSourceType,
		Index:      eventIndex,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.hecURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create HEC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Splunk "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return richerrors.Error{
			Code: SplunkFailureCode,
			Err:  fmt.Errorf("failed to POST to HEC endpoint: %w", err),
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		return richerrors.Error{
			Code: SplunkFailureCode,
			Err:  fmt.Errorf("HEC returned status code %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	return nil
}
