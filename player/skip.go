package player

import (
	"sync"
	"time"

	"github.com/pipetube-cli/pipetube/sponsorblock"
	"github.com/samber/mo"
)

// PollInterval is the cadence at which the playback position is checked
// against the segment list while playback is active.
const PollInterval = 100 * time.Millisecond

// Skipper tracks sponsor segments for the active playback session and decides
// when the playback position must jump past one. Each segment instance carries
// a skipped flag set once acted upon, so the same instance is never skipped or
// prompted twice.
//
// The Skipper is passive: the session owns the poll timer and asks for a
// decision on every tick.
type Skipper struct {
	mu       sync.Mutex
	segments []*skipSegment
	manual   bool
}

type skipSegment struct {
	sponsorblock.Segment
	skipped bool
}

// NewSkipper creates a Skipper with no segments. In manual mode, containment
// surfaces a skip affordance instead of seeking immediately.
func NewSkipper(manual bool) *Skipper {
	return &Skipper{manual: manual}
}

// Manual reports whether segments require an explicit user action to skip.
func (s *Skipper) Manual() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manual
}

// Replace installs a new segment list, discarding all previous segment state.
// Skipped flags never leak from one video into the next.
func (s *Skipper) Replace(segments []sponsorblock.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.segments = make([]*skipSegment, len(segments))
	for i, segment := range segments {
		s.segments[i] = &skipSegment{Segment: segment}
	}
}

// HasSegments reports whether any segments are installed.
func (s *Skipper) HasSegments() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.segments) > 0
}

// Pending returns the first segment (in list order) containing the given
// position that has not been acted upon yet. In manual mode this is the
// segment backing the skip affordance; absence means any visible affordance
// must be cleared.
func (s *Skipper) Pending(posMs int64) mo.Option[sponsorblock.Segment] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if segment := s.pendingLocked(posMs); segment != nil {
		return mo.Some(segment.Segment)
	}
	return mo.None[sponsorblock.Segment]()
}

// Skip marks the first pending segment containing the position as skipped and
// returns the position to seek to (the segment's end). None means there was
// nothing to skip - either no segment contains the position, or it has been
// acted upon already.
func (s *Skipper) Skip(posMs int64) mo.Option[int64] {
	s.mu.Lock()
	defer s.mu.Unlock()

	segment := s.pendingLocked(posMs)
	if segment == nil {
		return mo.None[int64]()
	}

	segment.skipped = true
	return mo.Some(int64(segment.End * 1000))
}

func (s *Skipper) pendingLocked(posMs int64) *skipSegment {
	posSec := float64(posMs) / 1000
	for _, segment := range s.segments {
		if !segment.skipped && segment.Contains(posSec) {
			return segment
		}
	}
	return nil
}
