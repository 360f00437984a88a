package spatial

import "sort"

// OverlapPair names two entities (by index into the caller's slice) whose
// projected bounding intervals overlap on the X axis.
type OverlapPair struct {
	A, B uint32
}

type overlapEndpoint struct {
	value    float64
	entityID uint32
	isMin    bool
}

// SweepAndPrune is a 1-axis broad-phase overlap detector. The Guard
// Pipeline uses it as an optional diagnostic: it feeds in each ally
// robot's current x-position and keeps the pairs whose padded intervals
// overlap as candidates for its exact distance check.
type SweepAndPrune struct {
	endpoints []overlapEndpoint
	pairs     []OverlapPair
	active    []uint32
}

// NewSweepAndPrune preallocates buffers for up to maxEntities obstacles.
func NewSweepAndPrune(maxEntities int) *SweepAndPrune {
	return &SweepAndPrune{
		endpoints: make([]overlapEndpoint, 0, maxEntities*2),
		pairs:     make([]OverlapPair, 0, maxEntities),
		active:    make([]uint32, 0, maxEntities/2+1),
	}
}

// Update rebuilds the sweep from positions (one per entity, X coordinate
// only matters for the broad phase) and a uniform radius, returning every
// overlapping pair. The returned slice is reused on the next call.
func (s *SweepAndPrune) Update(positionsX []float64, radius float64) []OverlapPair {
	s.pairs = s.pairs[:0]
	s.endpoints = s.endpoints[:0]

	for i, x := range positionsX {
		s.endpoints = append(s.endpoints,
			overlapEndpoint{x - radius, uint32(i), true},
			overlapEndpoint{x + radius, uint32(i), false},
		)
	}

	sort.Slice(s.endpoints, func(i, j int) bool { return s.endpoints[i].value < s.endpoints[j].value })

	s.active = s.active[:0]
	for _, ep := range s.endpoints {
		if ep.isMin {
			for _, other := range s.active {
				s.pairs = append(s.pairs, OverlapPair{ep.entityID, other})
			}
			s.active = append(s.active, ep.entityID)
		} else {
			for i, id := range s.active {
				if id == ep.entityID {
					s.active[i] = s.active[len(s.active)-1]
					s.active = s.active[:len(s.active)-1]
					break
				}
			}
		}
	}
	return s.pairs
}
