package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by style resources (text size, shadow offsets).
// Host coordinates are pixels; density is pixels per dp.

// Unit is the unit a length was written with in a theme file.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as pixels
	UnitPX
	UnitDP
	UnitSP
	UnitPT
	UnitMM
	UnitCM
	UnitIN
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	// baseDPI is the dpi at which one dp equals one pixel.
	baseDPI = 160.0
)

var unitSuffixes = []struct {
	s string
	u Unit
}{{"px", UnitPX}, {"dp", UnitDP}, {"sp", UnitSP}, {"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}}

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	for _, suf := range unitSuffixes {
		if suf.u == u {
			return suf.s
		}
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// Pixels converts this length to host pixels at the given density (pixels per dp).
// A non-positive density is treated as 1.
func (l Length) Pixels(density float64) float64 {
	if density <= 0 {
		density = 1
	}
	dpi := density * baseDPI
	switch l.Unit {
	case UnitDP, UnitSP:
		return l.Value * density
	case UnitPT:
		return l.Value * dpi / 72
	case UnitMM:
		return l.Value * dpi / 25.4
	case UnitCM:
		return l.Value * 10 * dpi / 25.4
	case UnitIN:
		return l.Value * dpi
	default:
		return l.Value
	}
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses a theme length string such as "14sp", "-1.5", "2dp".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无效的长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
