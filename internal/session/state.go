package session

import (
	"time"

	"github.com/narrative-risk/riskview/internal/core"
)

// Status identifies the variant of a State.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the session's current lifecycle state. It is one of Idle, Running,
// Succeeded or Failed; the set is closed.
type State interface {
	Status() Status
	sealed()
}

// Idle is the initial state, and the state after an error is dismissed.
type Idle struct{}

// Running means an analysis call is outstanding.
type Running struct {
	Seq       uint64
	Input     string
	StartedAt time.Time
}

// Succeeded carries the report of the latest analysis.
type Succeeded struct {
	Seq         uint64
	Input       string
	Report      *core.AnalysisReport
	CompletedAt time.Time
}

// Failed carries the user-facing message of the latest failed analysis.
type Failed struct {
	Seq     uint64
	Input   string
	Message string
	// Err is the normalized failure kept for logging; it is never rendered directly.
	Err error
}

func (Idle) Status() Status      { return StatusIdle }
func (Running) Status() Status   { return StatusRunning }
func (Succeeded) Status() Status { return StatusSucceeded }
func (Failed) Status() Status    { return StatusFailed }

func (Idle) sealed()      {}
func (Running) sealed()   {}
func (Succeeded) sealed() {}
func (Failed) sealed()    {}
