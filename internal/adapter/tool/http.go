package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"
)

var _ output.ToolPort = (*HTTPTool)(nil)

type HTTPTool struct {
	client *http.Client
	logger output.LoggerPort
	text   TextConfig
}

func NewHTTPTool(client *http.Client, logger output.LoggerPort) *HTTPTool {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTool{client: client, logger: logger, text: DefaultTextConfig}
}

// WithMaxTextSize bounds the extracted page text added for HTML responses.
func (t *HTTPTool) WithMaxTextSize(n int) *HTTPTool {
	t.text.MaxOutputSize = n
	return t
}

func (t *HTTPTool) Describe() entity.ToolDescriptor {
	return entity.ToolDescriptor{
		Name:        entity.ToolHTTP,
		Description: "Make HTTP requests to fetch data from URLs",
	}
}

type httpParams struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    any
}

func parseHTTPParams(params map[string]any) (httpParams, error) {
	var p httpParams

	url, _ := params["url"].(string)
	if strings.TrimSpace(url) == "" {
		return p, errors.New("missing required parameter: url")
	}
	p.URL = url

	p.Method = http.MethodGet
	if raw, ok := params["method"]; ok && raw != nil {
		method, ok := raw.(string)
		if !ok {
			return p, fmt.Errorf("method must be a string, got %T", raw)
		}
		if method = strings.ToUpper(strings.TrimSpace(method)); method != "" {
			p.Method = method
		}
	}

	if raw, ok := params["headers"]; ok && raw != nil {
		p.Headers = make(map[string]string)
		switch headers := raw.(type) {
		case map[string]string:
			for k, v := range headers {
				p.Headers[k] = v
			}
		case map[string]any:
			for k, v := range headers {
				p.Headers[k] = fmt.Sprint(v)
			}
		default:
			return p, fmt.Errorf("headers must be an object, got %T", raw)
		}
	}

	p.Body = params["body"]
	return p, nil
}

func (t *HTTPTool) Run(ctx context.Context, params map[string]any) (result entity.ToolResult) {
	defer recoverToolPanic(t.logger, entity.ToolHTTP, &result)

	p, err := parseHTTPParams(params)
	if err != nil {
		return entity.ToolFailure(err)
	}

	var body io.Reader
	if p.Body != nil {
		data, err := json.Marshal(p.Body)
		if err != nil {
			return entity.ToolFailure(fmt.Errorf("encode body: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, p.Method, p.URL, body)
	if err != nil {
		return entity.ToolFailure(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}

	if t.logger != nil {
		t.logger.Info("Executing tool", "name", entity.ToolHTTP, "method", p.Method, "url", p.URL)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("Tool request failed", "name", entity.ToolHTTP, "error", err)
		}
		return entity.ToolFailure(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.ToolFailure(fmt.Errorf("read response: %w", err))
	}

	headers := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		headers[k] = strings.Join(v, ", ")
	}

	out := map[string]any{
		"status_code": resp.StatusCode,
		"headers":     headers,
		"body":        string(data),
	}
	if isHTML(resp.Header.Get("Content-Type")) {
		out["text"] = ExtractText(string(data), &t.text)
	}

	if t.logger != nil {
		t.logger.Debug("Tool completed", "name", entity.ToolHTTP, "status", resp.StatusCode, "bodyLen", len(data))
	}
	return entity.ToolSuccess(out)
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/html"
}

func recoverToolPanic(logger output.LoggerPort, name entity.ToolName, result *entity.ToolResult) {
	if r := recover(); r != nil {
		if logger != nil {
			logger.Error("Tool panicked", "name", name, "panic", r)
		}
		*result = entity.ToolFailure(fmt.Errorf("tool %s panicked: %v", name, r))
	}
}
