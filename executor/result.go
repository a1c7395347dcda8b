package executor

import (
	"bytes"
	"encoding/json"
)

// Location is a position in the source document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError is a located execution error.
type GraphQLError struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e *GraphQLError) Error() string {
	return e.Message
}

// Response is the result of executing one operation. Data is nil when the
// whole response was nulled by non-null propagation; it is omitted entirely
// from the serialized form when execution never began (operation selection or
// variable coercion failure).
type Response struct {
	Data   *ResultMap
	Errors []*GraphQLError

	omitData bool
}

// MarshalJSON serializes the response with data first, preserving field
// order inside the result tree.
func (r *Response) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	if !r.omitData {
		b.WriteString(`"data":`)
		if r.Data == nil {
			b.WriteString("null")
		} else {
			data, err := json.Marshal(r.Data)
			if err != nil {
				return nil, err
			}
			b.Write(data)
		}
	}
	if len(r.Errors) > 0 {
		if !r.omitData {
			b.WriteByte(',')
		}
		b.WriteString(`"errors":`)
		errs, err := json.Marshal(r.Errors)
		if err != nil {
			return nil, err
		}
		b.Write(errs)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// ResultMap is an insertion-ordered map mirroring one level of the merged
// selection shape. Response field order must follow selection order, which a
// plain Go map cannot guarantee.
type ResultMap struct {
	keys   []string
	values map[string]any
}

// NewResultMap returns an empty result map.
func NewResultMap() *ResultMap {
	return &ResultMap{values: make(map[string]any)}
}

// Set stores value under key, keeping the key's first insertion position.
func (m *ResultMap) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *ResultMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *ResultMap) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *ResultMap) Len() int {
	return len(m.keys)
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (m *ResultMap) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
