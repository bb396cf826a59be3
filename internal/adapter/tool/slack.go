package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"
)

var _ output.ToolPort = (*SlackTool)(nil)

type SlackTool struct {
	webhookURL string
	client     *http.Client
	logger     output.LoggerPort
}

// NewSlackTool fails when no webhook URL is configured; the tool cannot work without one.
func NewSlackTool(webhookURL string, client *http.Client, logger output.LoggerPort) (*SlackTool, error) {
	if strings.TrimSpace(webhookURL) == "" {
		return nil, fmt.Errorf("%w: SLACK_WEBHOOK_URL is required", entity.ErrConfiguration)
	}
	if client == nil {
		client = &http.Client{}
	}
	return &SlackTool{
		webhookURL: webhookURL,
		client:     client,
		logger:     logger,
	}, nil
}

func (t *SlackTool) Describe() entity.ToolDescriptor {
	return entity.ToolDescriptor{
		Name:        entity.ToolSlack,
		Description: "Send messages to Slack channels",
	}
}

type slackPayload struct {
	Text   string `json:"text"`
	Blocks []any  `json:"blocks"`
}

func parseSlackParams(params map[string]any) (slackPayload, error) {
	payload := slackPayload{Blocks: []any{}}

	if raw, ok := params["text"]; ok && raw != nil {
		text, ok := raw.(string)
		if !ok {
			return payload, fmt.Errorf("text must be a string, got %T", raw)
		}
		payload.Text = text
	}

	if raw, ok := params["blocks"]; ok && raw != nil {
		blocks, ok := raw.([]any)
		if !ok {
			return payload, fmt.Errorf("blocks must be an array, got %T", raw)
		}
		payload.Blocks = blocks
	}
	return payload, nil
}

func (t *SlackTool) Run(ctx context.Context, params map[string]any) (result entity.ToolResult) {
	defer recoverToolPanic(t.logger, entity.ToolSlack, &result)

	payload, err := parseSlackParams(params)
	if err != nil {
		return entity.ToolFailure(err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return entity.ToolFailure(fmt.Errorf("encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.webhookURL, bytes.NewReader(data))
	if err != nil {
		return entity.ToolFailure(err)
	}
	req.Header.Set("Content-Type", "application/json")

	if t.logger != nil {
		t.logger.Info("Executing tool", "name", entity.ToolSlack, "textLen", len(payload.Text), "blocks", len(payload.Blocks))
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("Tool request failed", "name", entity.ToolSlack, "error", err)
		}
		return entity.ToolFailure(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return entity.ToolFailure(fmt.Errorf("Slack API error: %s", string(body)))
	}
	return entity.ToolSuccess("Message sent successfully")
}
