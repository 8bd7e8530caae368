// Package dummy defines the sample entity exposed by the demo function
// services.
package dummy

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
)

// Dummy is a keyed piece of content.
type Dummy struct {
	ID      string
	Key     string
	Content string
}

// FromMap builds a Dummy from decoded JSON parameters. Missing or non-string
// fields are left empty.
func FromMap(m map[string]any) Dummy {
	str := func(k string) string {
		s, _ := m[k].(string)
		return s
	}
	return Dummy{
		ID:      str("id"),
		Key:     str("key"),
		Content: str("content"),
	}
}

// ToMap returns the wire representation of the entity.
func (d Dummy) ToMap() map[string]any {
	m := map[string]any{
		"key":     d.Key,
		"content": d.Content,
	}
	if d.ID != "" {
		m["id"] = d.ID
	}
	return m
}

// Validate checks business rules for the Dummy entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (d Dummy) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(d.Key) == "" {
		fields["key"] = domain.MsgRequired
	}
	if strings.TrimSpace(d.Content) == "" {
		fields["content"] = domain.MsgRequired
	}
	if strings.ContainsAny(d.ID, " \t\n") {
		fields["id"] = fmt.Sprintf("must not contain whitespace, got %q", d.ID)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
