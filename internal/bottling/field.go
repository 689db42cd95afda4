package bottling

import (
	"math"
	"strconv"

	"experience-bottler/internal/utils/experience"
)

// Unit is the unit a field displays and accepts input in.
type Unit int

const (
	UnitPoint Unit = iota
	UnitLevel
)

// Rotate returns the next unit in the toggle order.
func (u Unit) Rotate() Unit {
	if u == UnitPoint {
		return UnitLevel
	}
	return UnitPoint
}

func (u Unit) String() string {
	if u == UnitLevel {
		return "level"
	}
	return "point"
}

// Style is how a field's text should be presented.
type Style int

const (
	StyleNormal Style = iota
	StyleError
)

const (
	// MaxLevelInput is the highest level that can be typed, the last level whose threshold fits in an int32.
	MaxLevelInput = 21863

	// saturatedText is shown in place of magnitudes that do not fit in an int32.
	saturatedText = "2147483647"
)

// Field is one of the numeric fields of a bottling session. The value is always held in points;
// the unit only changes how it is shown and typed.
type Field struct {
	points  int64
	unit    Unit
	focused bool
}

func (f Field) Points() int64 {
	return f.points
}

func (f Field) Unit() Unit {
	return f.unit
}

func (f Field) Focused() bool {
	return f.focused
}

// Value returns the signed value in the field's unit.
func (f Field) Value() int64 {
	if f.unit == UnitPoint {
		return f.points
	}

	level := experience.LevelFromTotalExperience(abs(f.points))
	if f.points < 0 {
		return -level
	}
	return level
}

// Text renders the value, replacing magnitudes above the int32 range with a saturated marker.
func (f Field) Text() string {
	v := f.Value()
	switch {
	case v > math.MaxInt32:
		return "++" + saturatedText
	case v < -math.MaxInt32:
		return "--" + saturatedText
	default:
		return strconv.FormatInt(v, 10)
	}
}

func (f Field) Style() Style {
	if f.points < 0 {
		return StyleError
	}
	return StyleNormal
}

func (f *Field) set(points int64) {
	f.points = points
}

// fromUnit converts a non-negative value in the field's unit back to points.
func (f Field) fromUnit(v int64) int64 {
	if f.unit == UnitLevel {
		return experience.PointsToReachLevel(v)
	}
	return v
}

// capUnit limits typed input so the resulting point value stays representable in an int32.
func (f Field) capUnit(v int64) int64 {
	if f.unit == UnitLevel {
		return min(v, MaxLevelInput)
	}
	return min(v, math.MaxInt32)
}

// typeDigit returns the points after appending r to the displayed value.
func (f Field) typeDigit(r rune) (int64, bool) {
	if r < '0' || r > '9' {
		return 0, false
	}

	v := abs(f.Value())
	if r == '0' && v == 0 {
		return 0, false
	}
	if v > math.MaxInt32 {
		v = math.MaxInt32
	}

	return f.fromUnit(f.capUnit(v*10 + int64(r-'0'))), true
}

// backspace returns the points after dropping the last displayed digit.
func (f Field) backspace() int64 {
	return f.fromUnit(abs(f.Value()) / 10)
}

func abs(v int64) int64 {
	if v < 0 {
		if v == math.MinInt64 {
			return math.MaxInt64
		}
		return -v
	}
	return v
}
