package batch

import "gyuu/internal/processor"

type Summary struct {
	Count           int
	OriginalBytes   int64
	CompressedBytes int64
	// ReductionPercent is signed; negative means the batch grew.
	ReductionPercent float64
	// HasData is false when there is nothing to compare against.
	HasData bool
}

// Summarize totals items. Empty input or a zero original total yields a
// zero reduction.
func Summarize(items []processor.ResultItem) Summary {
	sum := Summary{Count: len(items)}
	for _, item := range items {
		sum.OriginalBytes += item.OriginalSize
		sum.CompressedBytes += item.CompressedSize
	}

	if sum.OriginalBytes > 0 {
		sum.HasData = true
		sum.ReductionPercent = float64(sum.OriginalBytes-sum.CompressedBytes) / float64(sum.OriginalBytes) * 100
	}
	return sum
}
