package layout

import (
	"errors"
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := Length{Value: pt, Unit: UnitPT}.ToMM() * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestParseLength 覆盖常见单位的解析与到 mm 的换算。
func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		mm   float64
		unit Unit
	}{
		{"160mm", 160, UnitMM},
		{"2.54cm", 25.4, UnitCM},
		{"1in", 25.4, UnitIN},
		{" 12pt ", 12 * PtToMm, UnitPT},
		{"7.5", 7.5, UnitNone},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", c.in, err)
		}
		if l.Unit != c.unit {
			t.Fatalf("%q 单位错误: got=%v want=%v", c.in, l.Unit, c.unit)
		}
		if diff := math.Abs(l.ToMM() - c.mm); diff > 1e-9 {
			t.Fatalf("%q 转 mm 错误: got=%g want=%g", c.in, l.ToMM(), c.mm)
		}
	}
}

func TestParseLengthRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "mm", "abcpt", "1..2mm"} {
		if _, err := ParseLength(in); !errors.Is(err, ErrBadArgument) {
			t.Fatalf("%q: expected ErrBadArgument, got %v", in, err)
		}
	}
}

func TestLengthString(t *testing.T) {
	if got := (Length{Value: 11, Unit: UnitPT}).String(); got != "11pt" {
		t.Fatalf("unexpected %q", got)
	}
	if got := (Length{Value: 2.5}).String(); got != "2.5" {
		t.Fatalf("unexpected %q", got)
	}
}
