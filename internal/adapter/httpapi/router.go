// Package httpapi exposes the run loop, the tool set and the conversation log over HTTP.
package httpapi

import (
	"net/http"

	"agent-runner/internal/application/port/input"
	"agent-runner/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

type RouterOptions struct {
	ServiceName string
	// AccessLog enables per-request JSON access logs.
	AccessLog bool
}

type Handler struct {
	runner input.RunExecutor
	tools  output.ToolRegistry
	memory output.MemoryPort
	logger output.LoggerPort
}

// NewHandler builds the route handlers. memory may be nil when the log is disabled.
func NewHandler(runner input.RunExecutor, tools output.ToolRegistry, memory output.MemoryPort, logger output.LoggerPort) *Handler {
	return &Handler{
		runner: runner,
		tools:  tools,
		memory: memory,
		logger: logger,
	}
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.AccessLog {
		name := opts.ServiceName
		if name == "" {
			name = "agent-runner"
		}
		r.Use(httplog.RequestLogger(httplog.NewLogger(name, httplog.Options{
			JSON:    true,
			Concise: true,
		})))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	r.Post("/agents/run", h.runAgent)
	r.Get("/sessions/{id}/entries", h.sessionEntries)
	r.Route("/tools", func(r chi.Router) {
		r.Get("/", h.listTools)
		r.Post("/{name}", h.runTool)
	})
	return r
}
