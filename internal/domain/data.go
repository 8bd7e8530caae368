package domain

import (
	"strconv"
	"strings"
)

// Paging defaults.
const (
	DefaultTake = 100
	MaxTake     = 1000
)

// FilterParams holds free-form string filter criteria.
// Missing keys mean "no filter" for that dimension.
type FilterParams map[string]string

// NewFilterParams converts a decoded JSON value into FilterParams.
// Non-string values are rendered with their default text form.
func NewFilterParams(value any) FilterParams {
	m, ok := value.(map[string]any)
	if !ok {
		return FilterParams{}
	}

	f := make(FilterParams, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			f[k] = tv
		case float64:
			f[k] = strconv.FormatFloat(tv, 'f', -1, 64)
		case bool:
			f[k] = strconv.FormatBool(tv)
		}
	}
	return f
}

// Get returns the value for key and whether it was set.
func (f FilterParams) Get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

// PagingParams selects a window of a result set.
type PagingParams struct {
	Skip  *int64
	Take  *int64
	Total bool
}

// NewPagingParams converts a decoded JSON value into PagingParams. Numeric
// strings are accepted for skip and take.
func NewPagingParams(value any) PagingParams {
	m, ok := value.(map[string]any)
	if !ok {
		return PagingParams{}
	}

	var p PagingParams
	p.Skip = int64Value(m["skip"])
	p.Take = int64Value(m["take"])
	switch t := m["total"].(type) {
	case bool:
		p.Total = t
	case string:
		p.Total = strings.EqualFold(t, "true")
	}
	return p
}

// SkipOr returns the skip value, or def when unset or negative.
func (p PagingParams) SkipOr(def int64) int64 {
	if p.Skip == nil || *p.Skip < 0 {
		return def
	}
	return *p.Skip
}

// TakeOr returns the take value clamped to MaxTake, or def when unset or
// not positive.
func (p PagingParams) TakeOr(def int64) int64 {
	if p.Take == nil || *p.Take <= 0 {
		return def
	}
	return min(*p.Take, MaxTake)
}

// DataPage is one page of a result set. Total is set only when requested.
type DataPage[T any] struct {
	Data  []T
	Total *int64
}

// ToMap returns the wire representation of the page. Items that provide
// their own ToMap are converted with it.
func (p DataPage[T]) ToMap() map[string]any {
	data := make([]any, 0, len(p.Data))
	for _, item := range p.Data {
		if m, ok := any(item).(interface{ ToMap() map[string]any }); ok {
			data = append(data, m.ToMap())
			continue
		}
		data = append(data, item)
	}

	out := map[string]any{"data": data}
	if p.Total != nil {
		out["total"] = *p.Total
	}
	return out
}

func int64Value(v any) *int64 {
	var n int64
	switch tv := v.(type) {
	case float64:
		n = int64(tv)
	case int:
		n = int64(tv)
	case int64:
		n = tv
	case string:
		parsed, err := strconv.ParseInt(tv, 10, 64)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}
