package experience

import (
	"math"
	"math/bits"
)

const (
	// cacheSize is the number of cumulative totals kept in the lookup table.
	cacheSize = 256

	// closedFormStart is where the curve settles into its last linear regime.
	closedFormStart = 30
)

var (
	// cumulative[i] is PointsToReachLevel(i) for i in [0, cacheSize].
	cumulative [cacheSize + 1]int64

	// maxLevel is the highest level whose threshold fits in an int64.
	maxLevel int64
)

func init() {
	for i := 1; i <= cacheSize; i++ {
		cumulative[i] = cumulative[i-1] + PointsForNextLevel(int64(i-1))
	}

	lo, hi := int64(cacheSize), int64(1)<<40
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if closedForm(mid) != math.MaxInt64 {
			lo = mid
		} else {
			hi = mid
		}
	}
	maxLevel = lo
}

// MaxLevel is the highest level LevelFromTotalExperience can return.
func MaxLevel() int64 {
	return maxLevel
}

// PointsForNextLevel returns the points needed to go from level to level+1.
func PointsForNextLevel(level int64) int64 {
	if level < 0 {
		level = 0
	}

	switch {
	case level > (math.MaxInt64-112)/9:
		return math.MaxInt64
	case level >= 30:
		return 112 + 9*(level-30)
	case level >= 15:
		return 37 + 5*(level-15)
	default:
		return 7 + 2*level
	}
}

// PointsToReachLevel returns the total points needed to reach level from zero.
// Results past math.MaxInt64 saturate.
func PointsToReachLevel(level int64) int64 {
	if level <= 0 {
		return 0
	}
	if level <= cacheSize {
		return cumulative[level]
	}

	return closedForm(level)
}

// closedForm evaluates cumulative(30) + 112*n + 9*(n-1)*n/2 with n = level-30.
func closedForm(level int64) int64 {
	n := uint64(level - closedFormStart)

	hi, lo := bits.Mul64(n-1, n)
	if hi != 0 {
		return math.MaxInt64
	}
	// one of n-1 and n is even
	hi, steps := bits.Mul64(lo/2, 9)
	if hi != 0 {
		return math.MaxInt64
	}
	hi, linear := bits.Mul64(n, 112)
	if hi != 0 {
		return math.MaxInt64
	}

	sum, carry := bits.Add64(steps, linear, 0)
	if carry != 0 {
		return math.MaxInt64
	}
	sum, carry = bits.Add64(sum, uint64(cumulative[closedFormStart]), 0)
	if carry != 0 || sum > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(sum)
}

// TotalExperience returns the points represented by a level and the progress towards the next one.
// A progress of 1 is not carried into the next level; callers re-derive with LevelAndProgress.
func TotalExperience(level int64, progress float32) int64 {
	if progress < 0 || math.IsNaN(float64(progress)) {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}

	base := PointsToReachLevel(level)
	partial := int64(math.Round(float64(progress) * float64(PointsForNextLevel(level))))
	if base > math.MaxInt64-partial {
		return math.MaxInt64
	}

	return base + partial
}

// LevelFromTotalExperience returns the greatest level whose threshold does not exceed points.
func LevelFromTotalExperience(points int64) int64 {
	if points <= 0 {
		return 0
	}

	if points < cumulative[cacheSize] {
		// first index with cumulative[i] > points, minus one
		lo, hi := 0, cacheSize
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if cumulative[mid] <= points {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		return int64(lo - 1)
	}

	if points >= PointsToReachLevel(maxLevel) {
		return maxLevel
	}

	lo, step := int64(cacheSize), int64(cacheSize)
	hi := min(lo+step, maxLevel)
	for PointsToReachLevel(hi) <= points {
		lo = hi
		step *= 2
		hi = min(lo+step, maxLevel)
	}

	// invariant: PointsToReachLevel(lo) <= points < PointsToReachLevel(hi)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if PointsToReachLevel(mid) <= points {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo
}

// LevelAndProgress splits a point total into a level and the fractional progress towards the next.
func LevelAndProgress(points int64) (int64, float32) {
	if points <= 0 {
		return 0, 0
	}

	level := LevelFromTotalExperience(points)
	remainder := points - PointsToReachLevel(level)
	progress := float32(float64(remainder) / float64(PointsForNextLevel(level)))
	if progress >= 1 {
		progress = math.Nextafter32(1, 0)
	}

	return level, progress
}

// ClampInt32 narrows v to the int32 range, saturating at both ends.
func ClampInt32(v int64) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
