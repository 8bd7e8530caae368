package domain

import "testing"

func TestNewFilterParams(t *testing.T) {
	t.Parallel()

	f := NewFilterParams(map[string]any{
		"key":    "k1",
		"limit":  float64(3),
		"active": true,
		"none":   nil,
	})

	if v, ok := f.Get("key"); !ok || v != "k1" {
		t.Errorf("Get(key) = %q, %v; want \"k1\", true", v, ok)
	}
	if v := f["limit"]; v != "3" {
		t.Errorf("limit = %q, want \"3\"", v)
	}
	if v := f["active"]; v != "true" {
		t.Errorf("active = %q, want \"true\"", v)
	}
	if _, ok := f.Get("none"); ok {
		t.Error("Get(none) reported set, want unset for nil values")
	}
}

func TestNewFilterParams_NonMap(t *testing.T) {
	t.Parallel()

	if f := NewFilterParams("nope"); len(f) != 0 {
		t.Errorf("NewFilterParams(string) = %v, want empty", f)
	}
}

func TestNewPagingParams(t *testing.T) {
	t.Parallel()

	p := NewPagingParams(map[string]any{"skip": float64(5), "take": "20", "total": true})

	if got := p.SkipOr(0); got != 5 {
		t.Errorf("SkipOr(0) = %d, want 5", got)
	}
	if got := p.TakeOr(DefaultTake); got != 20 {
		t.Errorf("TakeOr(%d) = %d, want 20", DefaultTake, got)
	}
	if !p.Total {
		t.Error("Total = false, want true")
	}
}

func TestPagingParams_Defaults(t *testing.T) {
	t.Parallel()

	p := NewPagingParams(nil)

	if got := p.SkipOr(0); got != 0 {
		t.Errorf("SkipOr(0) = %d, want 0", got)
	}
	if got := p.TakeOr(DefaultTake); got != DefaultTake {
		t.Errorf("TakeOr(%d) = %d, want %d", DefaultTake, got, DefaultTake)
	}
}

func TestPagingParams_TakeClamped(t *testing.T) {
	t.Parallel()

	p := NewPagingParams(map[string]any{"take": float64(MaxTake * 10), "skip": float64(-1)})

	if got := p.TakeOr(DefaultTake); got != MaxTake {
		t.Errorf("TakeOr() = %d, want %d", got, MaxTake)
	}
	if got := p.SkipOr(0); got != 0 {
		t.Errorf("SkipOr(0) = %d, want 0 for negative skip", got)
	}
}

type mapped struct{ id string }

func (m mapped) ToMap() map[string]any { return map[string]any{"id": m.id} }

func TestDataPage_ToMap(t *testing.T) {
	t.Parallel()

	total := int64(2)
	page := DataPage[mapped]{Data: []mapped{{"a"}, {"b"}}, Total: &total}

	m := page.ToMap()
	data, ok := m["data"].([]any)
	if !ok || len(data) != 2 {
		t.Fatalf("data = %#v, want 2 items", m["data"])
	}
	first, ok := data[0].(map[string]any)
	if !ok || first["id"] != "a" {
		t.Errorf("data[0] = %#v, want map with id \"a\"", data[0])
	}
	if m["total"] != int64(2) {
		t.Errorf("total = %v, want 2", m["total"])
	}
}

func TestDataPage_ToMap_PlainItemsNoTotal(t *testing.T) {
	t.Parallel()

	m := DataPage[string]{Data: []string{"x"}}.ToMap()

	data, ok := m["data"].([]any)
	if !ok || len(data) != 1 || data[0] != "x" {
		t.Errorf("data = %#v, want [x]", m["data"])
	}
	if _, ok := m["total"]; ok {
		t.Error("total present, want omitted when not requested")
	}
}
