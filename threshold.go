package sightline

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ParseThresholds normalizes a threshold option into an ascending list of
// ratios in [0, 1].
//
// v may be nil (default [0]), a single value, or a slice of values. Each value
// is converted to a number the way a host numeric conversion would: bools
// become 0 or 1, strings are parsed after trimming (the empty string is 0) and
// every Go numeric type is widened to float64. Nil elements and any other
// type are not numbers and are rejected with ErrThresholdNotFinite. An empty
// slice yields the default [0].
//
// The returned slice never aliases v.
func ParseThresholds(v any) ([]float64, error) {
	if v == nil {
		return []float64{0}, nil
	}

	var raw []any
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		raw = make([]any, rv.Len())
		for i := range raw {
			raw[i] = rv.Index(i).Interface()
		}
	default:
		raw = []any{v}
	}
	if len(raw) == 0 {
		return []float64{0}, nil
	}

	out := make([]float64, len(raw))
	for i, elem := range raw {
		f := toNumber(elem)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: element %d is %v", ErrThresholdNotFinite, i, elem)
		}
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("%w: element %d is %v", ErrThresholdRange, i, f)
		}
		out[i] = f
	}
	slices.Sort(out)
	return out, nil
}

// toNumber converts a threshold element to float64, returning NaN for values
// that have no numeric interpretation.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case bool:
		if x {
			return 1
		}
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// bucketFor returns the number of thresholds that are <= ratio, i.e. the
// index of the first threshold strictly greater than ratio. thresholds must
// be sorted ascending.
func bucketFor(thresholds []float64, ratio float64) int {
	for i, t := range thresholds {
		if t > ratio {
			return i
		}
	}
	return len(thresholds)
}
