package player

// keyframeEntry is one (time, file offset) pair from the onMetaData
// "keyframes" arrays.
type keyframeEntry struct {
	TimeSeconds float64
	Offset      uint64
}

// keyframeIndex is sorted by descending TimeSeconds so that
// lowerBound(t) can scan forward for the first entry whose time is
// <= t, i.e. the greatest key not exceeding t.
type keyframeIndex []keyframeEntry

func newKeyframeIndex(times []float64, offsets []uint64) (keyframeIndex, error) {
	if len(times) != len(offsets) {
		return nil, newOpenError(OpenParseError, "keyframe times/filepositions length mismatch (%d vs %d)", len(times), len(offsets))
	}
	if len(times) == 0 {
		return nil, nil
	}

	idx := make(keyframeIndex, len(times))
	for i := range times {
		idx[i] = keyframeEntry{TimeSeconds: times[i], Offset: offsets[i]}
	}

	sortDescending(idx)
	return idx, nil
}

func sortDescending(idx keyframeIndex) {
	// Simple insertion sort: keyframe lists are small (one entry per
	// GOP) and this avoids pulling in sort for a handful of items
	// while keeping the comparator obviously correct.
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && idx[j].TimeSeconds > idx[j-1].TimeSeconds; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

// lowerBound returns the entry with the greatest TimeSeconds <= t
// (the highest key naturally satisfies this when t exceeds every
// key, since idx is sorted descending). If t precedes every key it
// falls back to the earliest keyframe. idx must be non-empty.
func (idx keyframeIndex) lowerBound(t float64) keyframeEntry {
	for _, e := range idx {
		if e.TimeSeconds <= t {
			return e
		}
	}
	return idx[len(idx)-1]
}
