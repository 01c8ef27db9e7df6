package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit 表示长度值的原始单位。排版内部统一使用毫米。
type Unit int

const (
	UnitNone Unit = iota
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

var unitSuffixes = []struct {
	suffix string
	unit   Unit
	mm     float64
}{
	{"mm", UnitMM, 1},
	{"cm", UnitCM, 10},
	{"in", UnitIN, 25.4},
	{"pt", UnitPT, PtToMm},
}

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return ""
}

// Length 保留数值及其单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ToMM converts to millimeters; unit-less values are taken as millimeters.
func (l Length) ToMM() float64 {
	for _, s := range unitSuffixes {
		if s.unit == l.Unit {
			return l.Value * s.mm
		}
	}
	return l.Value
}

// ToPT converts to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

// ParseLength 解析带单位的长度字符串，例如 "160mm"、"11pt"、"2.5"。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length: %w", ErrBadArgument)
	}
	unit, num := UnitNone, v
	for _, s := range unitSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit, num = s.unit, strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("length %q: %w", value, ErrBadArgument)
	}
	return Length{Value: f, Unit: unit}, nil
}
