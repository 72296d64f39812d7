package handler

import (
	"log/slog"
	"net/http"

	"github.com/oncode-dev/oncode/internal/executor"
	"github.com/oncode-dev/oncode/internal/request"
)

// ExecuteHandler proxies code execution requests to the remote backend.
//
// The endpoint is deliberately unauthenticated: the playground lets visitors
// run code before signing up, and all sandboxing happens on the remote side.
type ExecuteHandler struct {
	exec   executor.Executor
	logger *slog.Logger
}

// NewExecuteHandler creates an ExecuteHandler. exec may be nil when the
// remote backend is not configured; requests then fail with 500 without any
// network activity.
func NewExecuteHandler(exec executor.Executor, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		exec:   exec,
		logger: logger,
	}
}

// HandleExecute runs a snippet of code on the remote backend and returns the
// normalized envelope.
//
// HTTP: POST /api/execute
// Body: {"code": ..., "language": ..., "stdin": optional}
//
// The response is 200 whenever the remote call itself succeeded: a program
// that crashed, timed out, or failed to compile is still a successful
// execution from this boundary's point of view. Non-200 responses mean the
// request was invalid, the service is unconfigured, or the remote call
// failed.
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	if h.exec == nil {
		h.logger.Error("execution requested but no backend is configured")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Code execution service is not configured.",
			"error":   "Server configuration error.",
		})
		return
	}

	var req request.Execute
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := request.Validate(&req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.exec.Execute(r.Context(), executor.ExecutionRequest{
		Code:     req.Code,
		Language: req.Language,
		Stdin:    req.Stdin,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
