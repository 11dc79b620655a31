package tracker

import (
	"time"

	"github.com/swdee/go-poseoverlay/geometry"
	"gonum.org/v1/gonum/floats"
)

// EvictReason describes why a track was removed
type EvictReason int

const (
	// ReasonTTL is used when a track went unmatched for longer than the TTL
	ReasonTTL EvictReason = 0
	// ReasonReset is used when all tracks are dropped by a hard reset
	ReasonReset EvictReason = 1
)

// String returns a readable name of the reason
func (r EvictReason) String() string {
	if r == ReasonReset {
		return "reset"
	}
	return "ttl"
}

// EvictFunc is called once for every track removed from the Manager
type EvictFunc func(p *Person, reason EvictReason)

// Params defines the tracking parameters
type Params struct {
	// IoUThreshold is the minimum overlap, exclusive, between a detection and
	// an existing track for the detection to be assigned to that track
	IoUThreshold float32
	// TTL is the maximum time a track may go without a matching detection
	// before it is evicted
	TTL time.Duration
	// IDBase is the first track ID issued, and the ID issued first again
	// after a Reset
	IDBase uint64
}

// DefaultParams returns the default tracking parameters:
// - IoU Threshold: 0.3
// - TTL: 600ms
// - ID Base: 0
func DefaultParams() Params {
	return Params{
		IoUThreshold: 0.3,
		TTL:          600 * time.Millisecond,
		IDBase:       0,
	}
}

// Manager owns the set of tracked persons.  It is not safe for concurrent
// use, it is advanced by a single scheduler goroutine.
type Manager struct {
	// params are the tracking parameters
	params Params
	// idGen issues track IDs
	idGen *IDGenerator
	// tracks are the live tracks ordered by ascending ID
	tracks []*Person
	// evictHooks are called for every removed track
	evictHooks []EvictFunc
	// ious is scratch space reused between matches
	ious []float64
}

// NewManager returns a Manager configured with the given parameters
func NewManager(p Params) *Manager {
	return &Manager{
		params: p,
		idGen:  NewIDGenerator(p.IDBase),
		tracks: make([]*Person, 0),
	}
}

// Params returns the tracking parameters in use
func (m *Manager) Params() Params {
	return m.params
}

// OnEvict registers a function called for every track removed either by TTL
// eviction or a Reset
func (m *Manager) OnEvict(fn EvictFunc) {
	m.evictHooks = append(m.evictHooks, fn)
}

// Update matches a detection cycle's bounding boxes against the current
// tracks.  Each box is clipped to the frame, then assigned to the track it
// overlaps most when that overlap exceeds the IoU threshold, otherwise a new
// track is created.  Matching is greedy per detection in the order given and
// tracks created earlier in the same cycle are candidates for later
// detections.  Ties resolve to the highest IoU then the lowest track ID.
// Returns the tracks created or updated by this cycle.
func (m *Manager) Update(dets []geometry.Rect, frameW, frameH int,
	now time.Time) []*Person {

	touched := make([]*Person, 0, len(dets))

	for _, det := range dets {

		rect := det.Clip(frameW, frameH)

		if best := m.bestMatch(rect); best != nil {
			best.update(rect, now)
			touched = append(touched, best)
			continue
		}

		p := newPerson(m.idGen.GetNext(), rect, now)
		m.tracks = append(m.tracks, p)
		touched = append(touched, p)
	}

	return touched
}

// bestMatch returns the track with the highest IoU against rect if it is
// above the threshold
func (m *Manager) bestMatch(rect geometry.Rect) *Person {

	if len(m.tracks) == 0 {
		return nil
	}

	m.ious = m.ious[:0]

	for _, p := range m.tracks {
		m.ious = append(m.ious, float64(geometry.IoU(p.Rect, rect)))
	}

	// MaxIdx returns the first maximum, tracks are ordered by ID so equal
	// overlaps resolve to the oldest track
	idx := floats.MaxIdx(m.ious)

	if m.ious[idx] > float64(m.params.IoUThreshold) {
		return m.tracks[idx]
	}

	return nil
}

// Evict removes every track that has not been matched for longer than the
// TTL and returns them.  Each evicted track is reported exactly once.
func (m *Manager) Evict(now time.Time) []*Person {

	var evicted []*Person
	kept := m.tracks[:0]

	for _, p := range m.tracks {
		if p.Idle(now) > m.params.TTL {
			evicted = append(evicted, p)
			continue
		}
		kept = append(kept, p)
	}

	// clear dangling pointers in the tail of the reused backing array
	for i := len(kept); i < len(m.tracks); i++ {
		m.tracks[i] = nil
	}

	m.tracks = kept

	for _, p := range evicted {
		m.remove(p, ReasonTTL)
	}

	return evicted
}

// Reset drops all tracks and returns the ID counter to its base value
func (m *Manager) Reset() {

	dropped := m.tracks
	m.tracks = make([]*Person, 0)
	m.idGen.Reset()

	for _, p := range dropped {
		m.remove(p, ReasonReset)
	}
}

// remove marks the person evicted and notifies the hooks
func (m *Manager) remove(p *Person, reason EvictReason) {

	p.state = Evicted

	for _, fn := range m.evictHooks {
		fn(p, reason)
	}
}

// Tracks returns the live tracks ordered by ascending ID
func (m *Manager) Tracks() []*Person {
	out := make([]*Person, len(m.tracks))
	copy(out, m.tracks)
	return out
}

// Len returns the number of live tracks
func (m *Manager) Len() int {
	return len(m.tracks)
}

// NextID returns the ID the next created track will receive
func (m *Manager) NextID() uint64 {
	return m.idGen.Peek()
}
