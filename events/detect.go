// Package events locates transient peaks and valleys on a processed trace
// and derives per-event shape metrics and inter-event interval statistics.
package events

import (
	"math"
	"sort"
)

// Event is a single detected extremum.
type Event struct {
	Index     int
	Time      float64
	Amplitude float64
}

// Options constrains which local extrema qualify as events.
type Options struct {
	// Prominence is the minimum vertical drop required on both sides of an
	// extremum before the trace reaches a more extreme value.
	Prominence float64
	// MinWidth is the minimum event width in seconds, measured at half the
	// event's prominence. Zero disables the constraint.
	MinWidth float64
	// MinDistance is the minimum separation between events in seconds. Of
	// two events closer than this, the less prominent one is dropped. Zero
	// disables the constraint.
	MinDistance float64
}

// DefaultOptions returns the detector defaults.
func DefaultOptions() Options {
	return Options{Prominence: 1}
}

// Detect finds peaks on values and valleys on the negated values, each
// subject to opts. Both result sets are ordered by time and disjoint. The
// time axis is optional; when nil it is synthesized from fs.
func Detect(values, time []float64, fs float64, opts Options) (peaks, valleys []Event) {
	if len(values) == 0 || fs <= 0 {
		return nil, nil
	}

	negated := make([]float64, len(values))
	for i, v := range values {
		negated[i] = -v
	}

	peaks = detectOn(values, time, fs, opts)
	valleys = detectOn(negated, time, fs, opts)

	// Valley amplitudes report the actual trace depth, not the negated value.
	for i := range valleys {
		valleys[i].Amplitude = values[valleys[i].Index]
	}

	return peaks, valleys
}

type candidate struct {
	idx        int
	prominence float64
	leftBase   int
	rightBase  int
}

func detectOn(values, time []float64, fs float64, opts Options) []Event {
	cands := localMaxima(values)
	for i := range cands {
		measureProminence(values, &cands[i])
	}

	if opts.Prominence > 0 {
		kept := cands[:0]
		for _, c := range cands {
			if c.prominence >= opts.Prominence {
				kept = append(kept, c)
			}
		}
		cands = kept
	}

	if opts.MinDistance > 0 {
		cands = pruneByDistance(cands, int(opts.MinDistance*fs))
	}

	if opts.MinWidth > 0 {
		minWidth := float64(int(opts.MinWidth * fs))
		kept := cands[:0]
		for _, c := range cands {
			if widthAtHalfProminence(values, c) >= minWidth {
				kept = append(kept, c)
			}
		}
		cands = kept
	}

	out := make([]Event, len(cands))
	for i, c := range cands {
		t := float64(c.idx) / fs
		if c.idx < len(time) {
			t = time[c.idx]
		}
		out[i] = Event{Index: c.idx, Time: t, Amplitude: values[c.idx]}
	}
	return out
}

// localMaxima returns every strict local maximum, reporting plateaus by
// their midpoint sample.
func localMaxima(x []float64) []candidate {
	var out []candidate
	i := 1
	for i < len(x)-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < len(x)-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				out = append(out, candidate{idx: (i + ahead - 1) / 2})
				i = ahead
				continue
			}
		}
		i++
	}
	return out
}

// measureProminence walks outward from the candidate in both directions
// until a higher sample or the trace boundary, recording the minimum seen
// on each side. The prominence is the drop to the higher of the two minima.
func measureProminence(x []float64, c *candidate) {
	h := x[c.idx]

	leftMin := h
	c.leftBase = c.idx
	for i := c.idx - 1; i >= 0 && x[i] <= h; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
			c.leftBase = i
		}
	}

	rightMin := h
	c.rightBase = c.idx
	for i := c.idx + 1; i < len(x) && x[i] <= h; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
			c.rightBase = i
		}
	}

	c.prominence = h - math.Max(leftMin, rightMin)
}

// pruneByDistance removes candidates closer than minDist samples to a more
// prominent candidate. Candidates are visited in order of decreasing
// prominence so the strongest event in each neighborhood survives.
func pruneByDistance(cands []candidate, minDist int) []candidate {
	if minDist < 1 || len(cands) < 2 {
		return cands
	}

	order := make([]int, len(cands))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cands[order[a]].prominence > cands[order[b]].prominence
	})

	keep := make([]bool, len(cands))
	for i := range keep {
		keep[i] = true
	}
	for _, k := range order {
		if !keep[k] {
			continue
		}
		for j := k - 1; j >= 0 && cands[k].idx-cands[j].idx < minDist; j-- {
			keep[j] = false
		}
		for j := k + 1; j < len(cands) && cands[j].idx-cands[k].idx < minDist; j++ {
			keep[j] = false
		}
	}

	out := cands[:0]
	for i, c := range cands {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}

// widthAtHalfProminence measures the candidate's width in samples at half
// its prominence below the extremum, interpolating the crossings linearly.
func widthAtHalfProminence(x []float64, c candidate) float64 {
	height := x[c.idx] - c.prominence/2

	leftIP := float64(c.leftBase)
	for i := c.idx - 1; i >= c.leftBase; i-- {
		if x[i] < height {
			leftIP = float64(i) + (height-x[i])/(x[i+1]-x[i])
			break
		}
	}

	rightIP := float64(c.rightBase)
	for i := c.idx + 1; i <= c.rightBase; i++ {
		if x[i] < height {
			rightIP = float64(i) - (height-x[i])/(x[i-1]-x[i])
			break
		}
	}

	return rightIP - leftIP
}
