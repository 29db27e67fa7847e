package histogram

// Count reports the outcome of IntegralBetweenValues: the rank difference
// r(v2)-r(v1), and whether the queried [v1,v2] range lies entirely to the
// left of the smallest non-empty bar or to the right of the largest
// (spec.md §4.10).
type Count struct {
	RankDelta    float64
	IsLeftBound  bool
	IsRightBound bool
}

// IntegralBetweenRanks computes the simple-model integral between two
// ranks (spec.md §4.10). It copies bars into a scratch summing Histogram
// (NewFromBars) and returns h.MoveToRank(r2).CurrentIntegral() -
// h.MoveToRank(r1).CurrentIntegral(); it does not compute the result in a
// single pass over bars, so each call pays for building that histogram.
func IntegralBetweenRanks(bars []int64, r1, r2 float64) float64 {
	return integralBetweenRanks(bars, r1, r2, false)
}

// IntegralBetweenRanksPrecise is IntegralBetweenRanks under the
// precise-model rank/value curve (spec.md §4.9/§4.10).
func IntegralBetweenRanksPrecise(bars []int64, r1, r2 float64) float64 {
	return integralBetweenRanks(bars, r1, r2, true)
}

func integralBetweenRanks(bars []int64, r1, r2 float64, precise bool) float64 {
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	total := int64(0)
	for _, b := range bars {
		total += b
	}
	if total == 0 || r1 == r2 {
		return 0
	}
	h := NewFromBars(append([]int64(nil), bars...), false, nil)
	var hi float64
	if precise {
		h.MoveToPreciseRank(r2)
		hi = h.CurrentPreciseIntegral()
		h.MoveToPreciseRank(r1)
		return hi - h.CurrentPreciseIntegral()
	}
	h.MoveToRank(r2)
	hi = h.CurrentIntegral()
	h.MoveToRank(r1)
	return hi - h.CurrentIntegral()
}

// IntegralBetweenValues integrates between two integer values instead of
// ranks, additionally reporting the rank delta and whether the queried
// range falls entirely outside the histogram's non-empty span (spec.md
// §4.10).
func IntegralBetweenValues(bars []int64, v1, v2 int64) (float64, Count) {
	return integralBetweenValues(bars, v1, v2, false)
}

// IntegralBetweenValuesPrecise mirrors IntegralBetweenValues under the
// precise model.
func IntegralBetweenValuesPrecise(bars []int64, v1, v2 int64) (float64, Count) {
	return integralBetweenValues(bars, v1, v2, true)
}

func integralBetweenValues(bars []int64, v1, v2 int64, precise bool) (float64, Count) {
	if v2 < v1 {
		v1, v2 = v2, v1
	}
	levels := buildLevels(bars, nil, false)
	first := firstNonEmptyFrom(bars, levels, 0)
	last := lastNonEmpty(bars, levels)

	count := Count{}
	if first < 0 {
		// Every bar empty: no rank range exists anywhere.
		count.IsLeftBound, count.IsRightBound = true, true
		return 0, count
	}
	count.IsLeftBound = v2 <= first
	count.IsRightBound = v1 > last

	h := NewFromBars(append([]int64(nil), bars...), false, nil)
	h.MoveToIValue(clampValue(v1, int64(len(bars))))
	r1 := float64(h.curIRank)
	h.MoveToIValue(clampValue(v2, int64(len(bars))))
	r2 := float64(h.curIRank)
	count.RankDelta = r2 - r1

	return integralBetweenRanks(bars, r1, r2, precise), count
}

func clampValue(v, length int64) int64 {
	if v < 0 {
		return 0
	}
	if v > length {
		return length
	}
	return v
}
