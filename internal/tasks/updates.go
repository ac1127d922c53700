package tasks

import "fmt"

// ProgressUpdate represents a progress event during a replay.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	StartRun Phase = iota
	ApplyOp
	Summarize
	ReplayScript
)

func (p Phase) String() string {
	switch p {
	case StartRun:
		return "start_run"
	case ApplyOp:
		return "apply_op"
	case Summarize:
		return "summarize"
	case ReplayScript:
		return "replay_script"
	default:
		return ""
	}
}

// sendProgress delivers an update without blocking; a nil or full channel drops it.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func startRunUpdate(total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StartRun,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Replaying %s (%d ops)...", name, total),
	}
}

func applyOpUpdate(step, total int, res OpResult) ProgressUpdate {
	mark := "✓"
	if res.Err != nil {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   ApplyOp,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s: %s", step, total, mark, res.Op, res.Outcome()),
		Data:    res,
	}
}

func summaryUpdate(total int, res *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summarize,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("%d succeeded, %d failed", res.SuccessCount, res.FailedCount),
		Data:    res,
	}
}

func scriptStartedUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReplayScript,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Replaying: %s...", step, total, path),
	}
}

func scriptCompletedUpdate(step, total int, res ScriptResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReplayScript,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d ops)", step, total, res.Path, len(res.Run.Ops)),
	}
}

func scriptFailedUpdate(step, total int, path string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReplayScript,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, path, err),
	}
}
