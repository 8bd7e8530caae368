package commands

import (
	"fmt"
	"strconv"
)

// Parameters is the decoded argument map passed to a command.
type Parameters map[string]any

// NewParameters wraps m. A nil map yields empty parameters.
func NewParameters(m map[string]any) Parameters {
	if m == nil {
		return Parameters{}
	}
	return Parameters(m)
}

// Get returns the raw value for key.
func (p Parameters) Get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

// GetString returns the value for key as a string. Numbers and booleans are
// formatted; missing or null values yield "".
func (p Parameters) GetString(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// GetMap returns the value for key when it is an object, or nil.
func (p Parameters) GetMap(key string) map[string]any {
	m, _ := p[key].(map[string]any)
	return m
}

// GetInt returns the value for key as an integer when it is numeric or a
// numeric string.
func (p Parameters) GetInt(key string) (int64, bool) {
	switch v := p[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
