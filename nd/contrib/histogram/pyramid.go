// Package histogram implements the summing histogram of spec.md §4.9/§4.10:
// a bar array with a hierarchical pyramid of coarser levels that lets
// rank/value/integral queries skip whole runs of bars instead of scanning
// one at a time. Grounded on hwy/contrib/algo/prefix_sum_base.go's
// carry-propagated running-sum technique (here applied per pyramid level
// instead of per SIMD lane) and on hwy/contrib/workerpool's mutex-guarded
// shared-state discipline for the sibling ring (spec.md §9 "Cyclic
// references").
package histogram

import "sort"

// group is one node of a pyramid level: the aggregate of a contiguous run
// of bars of size 1<<shift.
type group struct {
	count    int64
	sum      int64 // Σ j*bars[j] over the run; only maintained when optimizeSum
	distinct int64 // count of non-zero bars in the run
}

// level is one pyramid tier. shift determines the run size (1<<shift bars
// per group).
type level struct {
	shift  uint
	groups []group
}

// buildLevels constructs one pyramid level per distinct positive bit-level
// named in bitLevels (spec.md §6's new_summing_long_histogram bit_levels
// argument), sorted coarsest-first so descent always tries the biggest
// skip first.
func buildLevels(bars []int64, bitLevels []int, optimizeSum bool) []level {
	shifts := make([]int, 0, len(bitLevels))
	seen := map[int]bool{}
	for _, b := range bitLevels {
		if b > 0 && !seen[b] {
			seen[b] = true
			shifts = append(shifts, b)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(shifts)))

	levels := make([]level, len(shifts))
	for li, s := range shifts {
		shift := uint(s)
		groupSize := int64(1) << shift
		numGroups := (int64(len(bars)) + groupSize - 1) / groupSize
		groups := make([]group, numGroups)
		for g := range groups {
			lo := int64(g) * groupSize
			hi := lo + groupSize
			if hi > int64(len(bars)) {
				hi = int64(len(bars))
			}
			var c, sum, d int64
			for j := lo; j < hi; j++ {
				if bars[j] == 0 {
					continue
				}
				c += bars[j]
				d++
				if optimizeSum {
					sum += j * bars[j]
				}
			}
			groups[g] = group{count: c, sum: sum, distinct: d}
		}
		levels[li] = level{shift: shift, groups: groups}
	}
	return levels
}

// adjustBar applies delta to bars[v] and propagates the change into every
// pyramid level. Returns the resulting change in distinct-bar count (+1
// when bars[v] becomes nonzero, -1 when it becomes zero, else 0).
func adjustBar(bars []int64, levels []level, optimizeSum bool, v, delta int64) (distinctDelta int64) {
	before := bars[v]
	after := before + delta
	bars[v] = after
	if before == 0 && after != 0 {
		distinctDelta = 1
	} else if before != 0 && after == 0 {
		distinctDelta = -1
	}
	for li := range levels {
		lvl := &levels[li]
		g := v >> lvl.shift
		lvl.groups[g].count += delta
		lvl.groups[g].distinct += distinctDelta
		if optimizeSum {
			lvl.groups[g].sum += v * delta
		}
	}
	return distinctDelta
}

// locateByRank performs the top-down pyramid descent of spec.md §4.9's
// move_to_i_rank: find the smallest bar index idx such that the cumulative
// bar count strictly before idx (rankBefore) is <= r and rankBefore plus
// bars[idx] is > r. Requires r < total.
//
// This descends from scratch on every call rather than walking
// incrementally from the caller's previous position; see DESIGN.md for why
// that simplification was chosen over a stateful walker.
func locateByRank(bars []int64, levels []level, r int64) (idx, rankBefore int64) {
	for _, lvl := range levels {
		g := idx >> lvl.shift
		for int(g) < len(lvl.groups) && rankBefore+lvl.groups[g].count <= r {
			rankBefore += lvl.groups[g].count
			idx = (g + 1) << lvl.shift
			g++
		}
	}
	for idx < int64(len(bars)) && rankBefore+bars[idx] <= r {
		rankBefore += bars[idx]
		idx++
	}
	return idx, rankBefore
}

// lastNonEmpty finds the index of the rightmost non-zero bar, descending
// the pyramid coarsest-first. Returns -1 if every bar is zero.
func lastNonEmpty(bars []int64, levels []level) int64 {
	lo, hi := int64(0), int64(len(bars))
	for _, lvl := range levels {
		groupSize := int64(1) << lvl.shift
		gLo := int(lo >> lvl.shift)
		gHi := int((hi - 1) >> lvl.shift)
		found := -1
		for g := gHi; g >= gLo; g-- {
			if lvl.groups[g].count > 0 {
				found = g
				break
			}
		}
		if found == -1 {
			return -1
		}
		lo = int64(found) << lvl.shift
		hi = lo + groupSize
		if hi > int64(len(bars)) {
			hi = int64(len(bars))
		}
	}
	for i := hi - 1; i >= lo; i-- {
		if bars[i] > 0 {
			return i
		}
	}
	return -1
}

// firstNonEmptyFrom scans left-to-right from a (generally group-unaligned)
// starting index for the next non-empty bar; used by the precise-integral
// trapezoid correction to find "the next non-empty bar to the right".
// Plain linear scan: per spec.md §9's open question on index_of, a correct
// slower fallback is acceptable where no clean pyramid alignment exists.
func firstNonEmptyFrom(bars []int64, levels []level, from int64) int64 {
	for i := from; i < int64(len(bars)); i++ {
		if bars[i] > 0 {
			return i
		}
	}
	return -1
}

// cumulativeBelow returns the count, weighted sum (Σ j*bars[j]), and
// distinct-bar count over bars[0:idx) (spec.md §4.9 current_sum/
// current_n_distinct). count/distinct always use the pyramid to skip whole
// groups, since buildLevels/adjustBar maintain those two fields
// unconditionally. sum only gets the same group-skipping treatment when
// optimizeSum is set (the only field buildLevels/adjustBar make
// conditional); otherwise it falls back to one O(idx) linear scan, which is
// still correct — just without the pyramid speedup — per New's
// optimizeSimpleIntegral doc comment.
func cumulativeBelow(bars []int64, levels []level, optimizeSum bool, idx int64) (count, sum, distinct int64) {
	pos := int64(0)
	for _, lvl := range levels {
		g := pos >> lvl.shift
		for int(g) < len(lvl.groups) {
			ge := (g + 1) << lvl.shift
			if ge > idx {
				break
			}
			count += lvl.groups[g].count
			if optimizeSum {
				sum += lvl.groups[g].sum
			}
			distinct += lvl.groups[g].distinct
			pos = ge
			g++
		}
	}
	for p := pos; p < idx; p++ {
		count += bars[p]
		if optimizeSum {
			sum += p * bars[p]
		}
		if bars[p] != 0 {
			distinct++
		}
	}
	if !optimizeSum {
		// The pyramid never accumulated sum above (buildLevels/adjustBar only
		// maintain group.sum when optimizeSum is set), so recover it with one
		// independent full scan instead of leaving it at zero.
		for p := int64(0); p < idx; p++ {
			sum += p * bars[p]
		}
	}
	return
}
