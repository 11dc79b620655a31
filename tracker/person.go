package tracker

import (
	"fmt"
	"time"

	"github.com/swdee/go-poseoverlay/geometry"
)

// State represents the lifecycle state of a tracked person
type State int

const (
	// Person was created from an unmatched detection this cycle
	Created State = 0
	// Person has been matched by at least one later detection
	Live State = 1
	// Person exceeded the TTL or was dropped by a reset.  Terminal.
	Evicted State = 2
)

// String returns a readable name of the state
func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Live:
		return "live"
	case Evicted:
		return "evicted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Person represents a single tracked person
type Person struct {
	// ID is the unique identity assigned when the track was created
	ID uint64
	// Rect is the latest matched bounding box in frame pixel space, always
	// clipped to the frame bounds
	Rect geometry.Rect
	// FirstSeen is the time the track was created
	FirstSeen time.Time
	// LastSeen is the time of the last matching detection
	LastSeen time.Time
	// Hits is the number of detections assigned to the track
	Hits int
	// state is the current lifecycle state
	state State
}

// newPerson creates a new Person from an unmatched detection
func newPerson(id uint64, rect geometry.Rect, now time.Time) *Person {
	return &Person{
		ID:        id,
		Rect:      rect,
		FirstSeen: now,
		LastSeen:  now,
		Hits:      1,
		state:     Created,
	}
}

// State returns the current lifecycle state of the person
func (p *Person) State() State {
	return p.state
}

// update applies a matching detection to the track
func (p *Person) update(rect geometry.Rect, now time.Time) {
	p.Rect = rect
	p.LastSeen = now
	p.Hits++
	p.state = Live
}

// Idle returns how long it has been since the person was last matched
func (p *Person) Idle(now time.Time) time.Duration {
	return now.Sub(p.LastSeen)
}

// String returns a short description of the person for logging
func (p *Person) String() string {
	return fmt.Sprintf("person %d %s [%.1f %.1f %.1f %.1f]", p.ID, p.state,
		p.Rect.X, p.Rect.Y, p.Rect.Width, p.Rect.Height)
}
