// Package convert provides type conversion utilities.
package convert

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToFloat64 converts various numeric types to float64.
// Returns 0 for unsupported types or parse failures.
func ToFloat64(v any) float64 {
	f, _ := ToFloat64OK(v)
	return f
}

// ToFloat64OK 同 ToFloat64，但区分"解析失败"与真实的 0。
// 字符串允许逗号小数点与 "bb" 后缀（"12,5 BB"）。NaN 与 Inf 视为失败。
func ToFloat64OK(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		s = strings.TrimSpace(strings.TrimSuffix(s, "bb"))
		s = strings.ReplaceAll(s, ",", ".")
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
