package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLevelsDedupesAndSortsCoarsestFirst(t *testing.T) {
	bars := make([]int64, 32)
	levels := buildLevels(bars, []int{2, 4, 2, 0, -1}, false)
	assert.Len(t, levels, 2, "duplicate and non-positive shifts must be dropped")
	assert.Equal(t, uint(4), levels[0].shift, "coarsest level must come first")
	assert.Equal(t, uint(2), levels[1].shift)
}

func TestBuildLevelsGroupAggregates(t *testing.T) {
	bars := []int64{1, 0, 2, 3, 0, 5, 0, 0}
	levels := buildLevels(bars, []int{2}, true)
	lvl := levels[0]
	// groups of 4: [1,0,2,3] sum=0*1+2*2+3*3=13 count=6 distinct=3; [0,5,0,0] sum=5*5=25 count=5 distinct=1
	assert.Equal(t, int64(6), lvl.groups[0].count)
	assert.Equal(t, int64(3), lvl.groups[0].distinct)
	assert.Equal(t, int64(0*1+2*2+3*3), lvl.groups[0].sum)
	assert.Equal(t, int64(5), lvl.groups[1].count)
	assert.Equal(t, int64(1), lvl.groups[1].distinct)
	assert.Equal(t, int64(5*5), lvl.groups[1].sum)
}

func TestAdjustBarPropagatesIntoEveryLevel(t *testing.T) {
	bars := make([]int64, 16)
	levels := buildLevels(bars, []int{2, 4}, true)

	d := adjustBar(bars, levels, true, 5, 3)
	assert.Equal(t, int64(1), d, "0 -> nonzero must report +1 distinct")
	assert.Equal(t, int64(3), bars[5])
	for _, lvl := range levels {
		g := int64(5) >> lvl.shift
		assert.Equal(t, int64(3), lvl.groups[g].count)
		assert.Equal(t, int64(1), lvl.groups[g].distinct)
		assert.Equal(t, int64(5*3), lvl.groups[g].sum)
	}

	d2 := adjustBar(bars, levels, true, 5, -3)
	assert.Equal(t, int64(-1), d2, "nonzero -> 0 must report -1 distinct")
	assert.Equal(t, int64(0), bars[5])
}

func TestAdjustBarSameSignDeltaDoesNotChangeDistinct(t *testing.T) {
	bars := make([]int64, 8)
	levels := buildLevels(bars, []int{2}, false)
	adjustBar(bars, levels, false, 1, 2)
	d := adjustBar(bars, levels, false, 1, 5)
	assert.Equal(t, int64(0), d)
	assert.Equal(t, int64(7), bars[1])
}

func TestLocateByRankMatchesLinearScan(t *testing.T) {
	bars := []int64{0, 2, 0, 3, 1, 0, 4}
	levels := buildLevels(bars, []int{1, 2}, false)

	var total int64
	for _, b := range bars {
		total += b
	}
	for r := int64(0); r < total; r++ {
		idx, before := locateByRank(bars, levels, r)
		wantIdx, wantBefore := linearLocate(bars, r)
		assert.Equal(t, wantIdx, idx, "rank %d", r)
		assert.Equal(t, wantBefore, before, "rank %d", r)
	}
}

func linearLocate(bars []int64, r int64) (int64, int64) {
	var before int64
	for i, b := range bars {
		if before+b > r {
			return int64(i), before
		}
		before += b
	}
	return int64(len(bars)), before
}

func TestLastNonEmptyFindsRightmostNonZero(t *testing.T) {
	bars := []int64{1, 0, 0, 2, 0}
	levels := buildLevels(bars, []int{1}, false)
	assert.Equal(t, int64(3), lastNonEmpty(bars, levels))
}

func TestLastNonEmptyAllZeroReturnsNegativeOne(t *testing.T) {
	bars := make([]int64, 8)
	levels := buildLevels(bars, []int{2}, false)
	assert.Equal(t, int64(-1), lastNonEmpty(bars, levels))
}

func TestFirstNonEmptyFromSkipsZeros(t *testing.T) {
	bars := []int64{0, 0, 0, 5, 0, 7}
	levels := buildLevels(bars, []int{1}, false)
	assert.Equal(t, int64(3), firstNonEmptyFrom(bars, levels, 0))
	assert.Equal(t, int64(5), firstNonEmptyFrom(bars, levels, 4))
	assert.Equal(t, int64(-1), firstNonEmptyFrom(bars, levels, 6))
}

func TestCumulativeBelowMatchesLinearScan(t *testing.T) {
	bars := []int64{1, 0, 2, 3, 0, 5, 0, 4, 1}
	levels := buildLevels(bars, []int{2, 3}, true)
	for idx := int64(0); idx <= int64(len(bars)); idx++ {
		count, sum, distinct := cumulativeBelow(bars, levels, true, idx)
		wantCount, wantSum, wantDistinct := linearCumulative(bars, idx)
		assert.Equal(t, wantCount, count, "idx %d count", idx)
		assert.Equal(t, wantSum, sum, "idx %d sum", idx)
		assert.Equal(t, wantDistinct, distinct, "idx %d distinct", idx)
	}
}

func linearCumulative(bars []int64, idx int64) (count, sum, distinct int64) {
	for j := int64(0); j < idx; j++ {
		count += bars[j]
		sum += j * bars[j]
		if bars[j] != 0 {
			distinct++
		}
	}
	return
}
