package planner

import "github.com/tanq16/splitdl/internal/utils"

// Plan splits [0, totalSize-1] into workers contiguous ranges. Every range
// gets totalSize/workers bytes and the last one also takes the remainder.
// workers is clamped to totalSize so no range is empty.
func Plan(totalSize int64, workers int) []utils.ByteRange {
	if totalSize < 1 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if int64(workers) > totalSize {
		workers = int(totalSize)
	}
	base := totalSize / int64(workers)
	ranges := make([]utils.ByteRange, workers)
	for i := range workers {
		start := int64(i) * base
		end := start + base - 1
		if i == workers-1 {
			end = totalSize - 1
		}
		ranges[i] = utils.ByteRange{Start: start, End: end}
	}
	return ranges
}

// Choose applies the size threshold: resources of at most threshold bytes
// are fetched as one range, larger ones are split across workers.
func Choose(totalSize, threshold int64, workers int) []utils.ByteRange {
	if totalSize <= threshold {
		return Plan(totalSize, 1)
	}
	return Plan(totalSize, workers)
}
