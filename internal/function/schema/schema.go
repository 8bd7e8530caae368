// Package schema builds parameter validation schemas for function actions and
// commands. Schemas are compiled to OpenAPI 3 schema objects and checked with
// kin-openapi; failures are reported as *domain.ValidationError keyed by the
// dotted path of the offending field.
//
//	s := schema.NewRequest().WithBody(
//	    schema.NewObject().WithRequiredProperty("dummy_id", schema.String),
//	)
//	err := s.Validate(map[string]any{"body": map[string]any{}})
//	// err.Fields["body.dummy_id"] == "is required"
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
)

// Property is anything that can describe the shape of a value.
type Property interface {
	openAPI() *openapi3.Schema
}

// TypeCode is a primitive value type.
type TypeCode int

// Supported primitive types.
const (
	Any TypeCode = iota
	String
	Integer
	Number
	Boolean
	Map
	Array
)

func (t TypeCode) openAPI() *openapi3.Schema {
	switch t {
	case String:
		return openapi3.NewStringSchema()
	case Integer:
		return openapi3.NewIntegerSchema()
	case Number:
		return openapi3.NewFloat64Schema()
	case Boolean:
		return openapi3.NewBoolSchema()
	case Map:
		return openapi3.NewObjectSchema()
	case Array:
		return openapi3.NewArraySchema()
	default:
		return openapi3.NewSchema()
	}
}

// ArrayOf describes an array whose items match item.
func ArrayOf(item Property) Property {
	return arrayProperty{item: item}
}

type arrayProperty struct {
	item Property
}

func (a arrayProperty) openAPI() *openapi3.Schema {
	return openapi3.NewArraySchema().WithItems(a.item.openAPI())
}

// ObjectSchema describes an object with named properties. Properties that are
// not declared are allowed.
type ObjectSchema struct {
	properties []property
}

type property struct {
	name     string
	required bool
	value    Property
}

// NewObject creates an empty object schema.
func NewObject() *ObjectSchema {
	return &ObjectSchema{}
}

// WithRequiredProperty declares a property that must be present and non-null.
func (o *ObjectSchema) WithRequiredProperty(name string, p Property) *ObjectSchema {
	o.properties = append(o.properties, property{name: name, required: true, value: p})
	return o
}

// WithOptionalProperty declares a property that may be absent.
func (o *ObjectSchema) WithOptionalProperty(name string, p Property) *ObjectSchema {
	o.properties = append(o.properties, property{name: name, value: p})
	return o
}

func (o *ObjectSchema) openAPI() *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for _, p := range o.properties {
		ps := p.value.openAPI()
		if !p.required {
			ps.Nullable = true
		}
		s.WithProperty(p.name, ps)
		if p.required {
			s.Required = append(s.Required, p.name)
		}
	}
	return s
}

// Validate checks value against the schema. It returns nil on success or a
// *domain.ValidationError describing every failing field.
func (o *ObjectSchema) Validate(value any) error {
	return validate(o.openAPI(), value)
}

// FilterParams describes a free-form filter map.
func FilterParams() Property {
	return Map
}

// PagingParams describes the skip/take/total paging object.
func PagingParams() *ObjectSchema {
	return NewObject().
		WithOptionalProperty("skip", Integer).
		WithOptionalProperty("take", Integer).
		WithOptionalProperty("total", Boolean)
}

// RequestSchema describes the merged parameter set of a function request:
// query and path parameters at the top level and the parsed JSON payload
// under "body".
type RequestSchema struct {
	object *ObjectSchema
	body   *ObjectSchema
}

// NewRequest creates a request schema with an unconstrained body.
func NewRequest() *RequestSchema {
	return &RequestSchema{object: NewObject()}
}

// WithBody constrains the request body.
func (r *RequestSchema) WithBody(body *ObjectSchema) *RequestSchema {
	r.body = body
	return r
}

// WithRequiredParam declares a query or path parameter that must be present.
func (r *RequestSchema) WithRequiredParam(name string, p Property) *RequestSchema {
	r.object.WithRequiredProperty(name, p)
	return r
}

// WithOptionalParam declares a query or path parameter that may be absent.
func (r *RequestSchema) WithOptionalParam(name string, p Property) *RequestSchema {
	r.object.WithOptionalProperty(name, p)
	return r
}

func (r *RequestSchema) openAPI() *openapi3.Schema {
	s := r.object.openAPI()
	var body *openapi3.Schema
	if r.body != nil {
		body = r.body.openAPI()
	} else {
		body = openapi3.NewObjectSchema()
	}
	body.Nullable = true
	s.WithProperty("body", body)
	return s
}

// Validate checks the merged request parameters against the schema.
func (r *RequestSchema) Validate(value any) error {
	return validate(r.openAPI(), value)
}

func validate(s *openapi3.Schema, value any) error {
	normalized, err := normalize(value)
	if err != nil {
		return &domain.ValidationError{Fields: map[string]string{"": err.Error()}}
	}

	err = s.VisitJSON(normalized, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return toValidationError(err)
}

// normalize converts value into the generic JSON shape (maps, slices,
// float64, string, bool, nil) expected by the schema visitor.
func normalize(value any) (any, error) {
	if value == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON serializable: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding normalized value: %w", err)
	}
	return out, nil
}

func toValidationError(err error) *domain.ValidationError {
	fields := make(map[string]string)
	addField(fields, err)
	return &domain.ValidationError{Fields: fields}
}

func addField(fields map[string]string, err error) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi {
			addField(fields, e)
		}
		return
	}

	var serr *openapi3.SchemaError
	if !errors.As(err, &serr) {
		fields[""] = err.Error()
		return
	}

	path := serr.JSONPointer()
	msg := serr.Reason
	if serr.SchemaField == "required" {
		// The pointer of a required failure already ends at the missing
		// property in current kin-openapi releases.
		if name, ok := quoted(serr.Reason); ok {
			if len(path) == 0 || path[len(path)-1] != name {
				path = append(path, name)
			}
			msg = domain.MsgRequired
		}
	}

	key := strings.Join(path, ".")
	if prev, ok := fields[key]; ok && prev != msg {
		parts := strings.Split(prev, "; ")
		parts = append(parts, msg)
		sort.Strings(parts)
		msg = strings.Join(parts, "; ")
	}
	fields[key] = msg
}

// quoted returns the first double-quoted substring of s.
func quoted(s string) (string, bool) {
	_, rest, ok := strings.Cut(s, `"`)
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(rest, `"`)
	return name, ok
}
