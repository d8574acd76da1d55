package planner

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tanq16/splitdl/internal/utils"
)

func br(start, end int64) utils.ByteRange {
	return utils.ByteRange{Start: start, End: end}
}

func requirePartition(t *testing.T, totalSize int64, ranges []utils.ByteRange) {
	t.Helper()
	require.NotEmpty(t, ranges)
	require.Equal(t, int64(0), ranges[0].Start)
	require.Equal(t, totalSize-1, ranges[len(ranges)-1].End)
	var sum int64
	for i, r := range ranges {
		require.LessOrEqual(t, r.Start, r.End, "range %d", i)
		if i > 0 {
			require.Equal(t, ranges[i-1].End+1, r.Start, "range %d not contiguous", i)
		}
		sum += r.Size()
	}
	require.Equal(t, totalSize, sum)
}

func TestPlanPartitionProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 500 {
		size := rng.Int63n(1<<34) + 1
		workers := rng.Intn(64) + 1
		requirePartition(t, size, Plan(size, workers))
	}
	for size := int64(1); size <= 40; size++ {
		for workers := 1; workers <= 20; workers++ {
			requirePartition(t, size, Plan(size, workers))
		}
	}
}

func TestPlanSixteenWorkers(t *testing.T) {
	ranges := Plan(32*1024*1024, 16)
	require.Len(t, ranges, 16)
	require.Equal(t, utils.ByteRange{Start: 0, End: 2097151}, ranges[0])
	require.Equal(t, utils.ByteRange{Start: 31457280, End: 33554431}, ranges[15])
}

func TestPlanRemainderGoesToLastRange(t *testing.T) {
	ranges := Plan(10, 3)
	require.Equal(t, []utils.ByteRange{br(0, 2), br(3, 5), br(6, 9)}, ranges)
}

func TestPlanMoreWorkersThanBytes(t *testing.T) {
	ranges := Plan(3, 8)
	require.Equal(t, []utils.ByteRange{br(0, 0), br(1, 1), br(2, 2)}, ranges)
}

func TestPlanEmpty(t *testing.T) {
	require.Nil(t, Plan(0, 4))
}

func TestChooseThreshold(t *testing.T) {
	const threshold = 16 * 1024 * 1024

	small := Choose(1024, threshold, 16)
	require.Equal(t, []utils.ByteRange{br(0, 1023)}, small)

	atThreshold := Choose(threshold, threshold, 16)
	require.Len(t, atThreshold, 1)

	above := Choose(threshold+1, threshold, 16)
	require.Len(t, above, 16)
	requirePartition(t, threshold+1, above)
}
