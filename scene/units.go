package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// 场景中的长度以画布单位书写。pt 按字号换算：s 磅的文字占 s*zoom 个画布单位，
// 因此 12pt 与 12 号字一样高。

// Unit 是长度在场景描述中的原始单位。
type Unit int

const (
	UnitNone   Unit = iota // 画布单位（可写 px）
	UnitPT                 // 磅，随 zoom 缩放
	UnitFactor             // 倍数，如 1.5x，仅用于行高
)

func (u Unit) String() string {
	switch u {
	case UnitPT:
		return "pt"
	case UnitFactor:
		return "x"
	default:
		return ""
	}
}

// Length 保留数值与原始单位。
type Length struct {
	Value float64
	Unit  Unit
}

// ParseLength 解析 40、40px、12pt、1.5x。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	unit := UnitNone
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitNone}, {"pt", UnitPT}, {"x", UnitFactor}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSuffix(v, suf.s)
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("数值 %q 无效", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// Canvas 换算为画布单位。倍数相对 fontSize 磅的字高计算。
func (l Length) Canvas(fontSize, zoom float64) float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * zoom
	case UnitFactor:
		return l.Value * fontSize * zoom
	default:
		return l.Value
	}
}

// parseNumber 解析不带单位（或 px）的坐标与尺寸。
func parseNumber(value string) (float64, error) {
	l, err := ParseLength(value)
	if err != nil {
		return 0, err
	}
	if l.Unit != UnitNone {
		return 0, fmt.Errorf("数值 %q 不能带单位 %s", value, l.Unit)
	}
	return l.Value, nil
}

// parseExtent 解析宽度、行高等可带单位的长度。
// 倍数只对行高有意义，allowFactor 为 false 时拒绝。
func parseExtent(value string, fontSize, zoom float64, allowFactor bool) (float64, error) {
	l, err := ParseLength(value)
	if err != nil {
		return 0, err
	}
	if l.Unit == UnitFactor && !allowFactor {
		return 0, fmt.Errorf("数值 %q 不支持倍数", value)
	}
	if l.Value < 0 {
		return 0, fmt.Errorf("长度 %q 不能为负", value)
	}
	return l.Canvas(fontSize, zoom), nil
}
