package engine

import "time"

// Phase is the point in a frame where a system runs.
type Phase int

const (
	// PhaseUpdate runs game logic. Every update system finishes before extraction starts.
	PhaseUpdate Phase = iota

	// PhaseExtract copies per-frame state into GPU uploads.
	PhaseExtract
)

// String returns the lowercase name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseExtract:
		return "extract"
	default:
		return "unknown"
	}
}

// FrameInfo describes the frame a system runs in.
type FrameInfo struct {
	// Index counts frames from 0.
	Index uint64
	// Delta is the time since the previous frame.
	Delta time.Duration
}

// System is a function run once per frame in its phase.
type System func(frame FrameInfo) error
