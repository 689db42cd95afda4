package bottling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"experience-bottler/internal/utils/experience"
)

func TestField_Text(t *testing.T) {
	tests := []struct {
		name   string
		points int64
		unit   Unit
		want   string
		style  Style
	}{
		{"zero", 0, UnitPoint, "0", StyleNormal},
		{"plain", 1234, UnitPoint, "1234", StyleNormal},
		{"negative", -42, UnitPoint, "-42", StyleError},
		{"int32 max", math.MaxInt32, UnitPoint, "2147483647", StyleNormal},
		{"saturated", 5_000_000_000, UnitPoint, "++2147483647", StyleNormal},
		{"negative saturated", -5_000_000_000, UnitPoint, "--2147483647", StyleError},
		{"level", 1395, UnitLevel, "30", StyleNormal},
		{"level part way", 1506, UnitLevel, "30", StyleNormal},
		{"negative level", -1507, UnitLevel, "-31", StyleError},
		{"huge level stays readable", 5_000_000_000, UnitLevel, "33351", StyleNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Field{points: tt.points, unit: tt.unit}
			assert.Equal(t, tt.want, f.Text())
			assert.Equal(t, tt.style, f.Style())
		})
	}
}

func TestField_TypeDigit(t *testing.T) {
	tests := []struct {
		name   string
		points int64
		unit   Unit
		r      rune
		want   int64
		ok     bool
	}{
		{"first digit", 0, UnitPoint, '7', 7, true},
		{"append", 12, UnitPoint, '3', 123, true},
		{"leading zero rejected", 0, UnitPoint, '0', 0, false},
		{"zero after digit", 5, UnitPoint, '0', 50, true},
		{"letter rejected", 5, UnitPoint, 'a', 0, false},
		{"capped at int32", 999_999_999, UnitPoint, '9', math.MaxInt32, true},
		{"level digit", 0, UnitLevel, '1', 7, true},
		{"level append", 1507, UnitLevel, '9', 408307, true},
		{"level capped", experience.PointsToReachLevel(2187), UnitLevel, '0', 2147407943, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Field{points: tt.points, unit: tt.unit}
			got, ok := f.typeDigit(tt.r)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestField_Backspace(t *testing.T) {
	assert.Equal(t, int64(12), Field{points: 123}.backspace())
	assert.Equal(t, int64(0), Field{points: 7}.backspace())
	// level 31 -> level 3
	assert.Equal(t, int64(27), Field{points: 1507, unit: UnitLevel}.backspace())
}

func TestUnit_Rotate(t *testing.T) {
	assert.Equal(t, UnitLevel, UnitPoint.Rotate())
	assert.Equal(t, UnitPoint, UnitLevel.Rotate())
	assert.Equal(t, "point", UnitPoint.String())
	assert.Equal(t, "level", UnitLevel.String())
}
