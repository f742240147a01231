package enumerator

import (
	"math"

	apperrors "github.com/cliquecount/pkg/errors"
)

// CountTable maps clique size k (>=2) to how many k-cliques this worker
// has discovered. Sizes below 3 are never populated by Add from within
// the enumerator; only the initial-partition edge count ever touches
// count[2], and the output surface only reports k>=3 (spec §9).
type CountTable struct {
	counts map[int]int64
}

// NewCountTable returns an empty table.
func NewCountTable() *CountTable {
	return &CountTable{counts: make(map[int]int64)}
}

// Add increments count[k] by delta. A resulting value outside the range
// of a signed 64-bit integer is a fatal arithmetic-overflow condition
// (spec §7); callers are not expected to recover from this panic.
func (c *CountTable) Add(k int, delta int64) {
	cur := c.counts[k]
	if delta > 0 && cur > math.MaxInt64-delta {
		panic(apperrors.New(apperrors.CodeOverflowError, "clique count overflowed int64"))
	}
	c.counts[k] = cur + delta
}

// Get returns count[k], defaulting to zero.
func (c *CountTable) Get(k int) int64 {
	return c.counts[k]
}

// Merge adds every entry of other into c, used by the coordinator to sum
// per-worker tables by clique size.
func (c *CountTable) Merge(other *CountTable) {
	for k, v := range other.counts {
		c.Add(k, v)
	}
}

// Total sums the counts of sizes 3 and up, the "total_cliques" value of
// spec §6's output line; count[2] is left out.
func (c *CountTable) Total() int64 {
	var total int64
	for k, v := range c.counts {
		if k < 3 {
			continue
		}
		total += v
	}
	return total
}

// Map returns a copy of the underlying size->count table, for handing
// off to persistence or logging without exposing the table to further
// mutation.
func (c *CountTable) Map() map[int]int64 {
	out := make(map[int]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// MaxSize returns the largest k with a non-zero count, or 0 if empty.
func (c *CountTable) MaxSize() int {
	max := 0
	for k, v := range c.counts {
		if v != 0 && k > max {
			max = k
		}
	}
	return max
}

// ToSlice renders the table as a dense []int64 indexed by clique size,
// length maxSize+1, for transmission over RESULT_COUNTS.
func (c *CountTable) ToSlice(maxSize int) []int64 {
	out := make([]int64, maxSize+1)
	for k, v := range c.counts {
		if k <= maxSize {
			out[k] = v
		}
	}
	return out
}

// FromSlice reconstructs a CountTable from a dense []int64 as received
// over RESULT_COUNTS.
func FromSlice(values []int64) *CountTable {
	t := NewCountTable()
	for k, v := range values {
		if v != 0 {
			t.counts[k] = v
		}
	}
	return t
}
