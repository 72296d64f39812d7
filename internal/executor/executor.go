// Package executor defines the interface between the HTTP layer and whatever
// runs submitted code. The only production implementation proxies to a remote
// Judge0 service (internal/executor/judge0); tests use in-memory fakes.
package executor

import (
	"context"
)

// ExecutionRequest represents a request to run a piece of source code.
type ExecutionRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Stdin    string `json:"stdin,omitempty"`
}

// Status is the remote backend's verdict for a submission.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// ExecutionResult is the normalized envelope returned to clients.
//
// Stderr may be synthesized: on a compilation error it is replaced by the
// compiler output, on a timeout it is rewritten to include the elapsed time
// (see the judge0 package). CompileOutput always carries the raw compiler
// output regardless. Error carries a remote-internal error message, if any,
// independently of Stderr.
//
// A failed *program* is still a successful execution: handlers return this
// envelope with HTTP 200 whenever the remote call itself succeeded.
type ExecutionResult struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Status        Status `json:"status"`
	Time          string `json:"time"`   // elapsed seconds, as reported remotely
	Memory        int    `json:"memory"` // peak memory in KB, as reported remotely
	Error         string `json:"error,omitempty"`
}

// Executor runs code somewhere and returns the normalized result.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error)
}
