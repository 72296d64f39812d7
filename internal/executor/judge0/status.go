package judge0

import (
	"fmt"
	"strings"

	"github.com/oncode-dev/oncode/internal/executor"
)

// statusID enumerates Judge0's submission verdicts. The full Judge0 table has
// more runtime-error variants (7–14); anything not named here falls through
// to the generic case in normalize.
type statusID int

const (
	statusInQueue          statusID = 1
	statusProcessing       statusID = 2
	statusAccepted         statusID = 3
	statusWrongAnswer      statusID = 4
	statusTimeLimitExceed  statusID = 5
	statusCompilationError statusID = 6
)

// normalize reshapes a raw Judge0 submission into the client-facing envelope.
//
// One case per verdict, so a new Judge0 status is a one-line addition. Only
// Stderr is synthesized; Stdout and CompileOutput always pass through as the
// backend reported them, and the full status object rides along so callers
// can branch on the raw verdict if they need to.
func normalize(sub *submissionResponse) *executor.ExecutionResult {
	res := &executor.ExecutionResult{
		Stdout:        sub.Stdout,
		Stderr:        sub.Stderr,
		CompileOutput: sub.CompileOutput,
		Status: executor.Status{
			ID:          sub.Status.ID,
			Description: sub.Status.Description,
		},
		Time:   sub.Time,
		Memory: sub.Memory,
		// Judge0 reports its own internal failures (box errors etc.) in a
		// top-level message, independent of the program's stderr.
		Error: sub.Message,
	}

	switch statusID(sub.Status.ID) {
	case statusInQueue, statusProcessing:
		// Should not happen under wait=true. If the backend is ever called in
		// polling mode this branch keeps the envelope truthful instead of
		// returning a silently empty result.
		res.Stderr = "submission is still queued or processing"

	case statusAccepted:
		// Stdout is authoritative; nothing to synthesize.

	case statusWrongAnswer:
		msg := sub.Stderr
		if msg == "" {
			msg = "No specific error message."
		}
		res.Stderr = strings.TrimSpace(fmt.Sprintf("Execution Error (Wrong Answer): %s", msg))

	case statusTimeLimitExceed:
		res.Stderr = strings.TrimSpace(
			fmt.Sprintf("Execution timed out. Time: %ss. %s", sub.Time, sub.Stderr))

	case statusCompilationError:
		if sub.CompileOutput != "" {
			res.Stderr = sub.CompileOutput
		} else {
			res.Stderr = "Compilation failed."
		}

	default:
		// Runtime errors, internal errors, and any verdict added upstream.
		desc := sub.Status.Description
		if desc == "" {
			desc = "Execution Error"
		}
		detail := sub.Stderr
		if detail == "" {
			detail = sub.CompileOutput
		}
		if detail == "" {
			detail = "No specific error message."
		}
		res.Stderr = strings.TrimSpace(fmt.Sprintf("%s. %s", desc, detail))
	}

	return res
}
