package remote

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Field is one form field.
type Field struct {
	Name  string
	Value string
}

// Payload is an ordered list of form fields sent as multipart/form-data.
type Payload struct {
	fields []Field
}

// NewPayload creates an empty payload.
func NewPayload() *Payload {
	return &Payload{}
}

// Add appends a field and returns p for chaining.
func (p *Payload) Add(name, value string) *Payload {
	p.fields = append(p.fields, Field{Name: name, Value: value})
	return p
}

// Fields returns a copy of the fields in insertion order.
func (p *Payload) Fields() []Field {
	if p == nil {
		return nil
	}
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Get returns the first value stored under name.
func (p *Payload) Get(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, f := range p.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Len reports the number of fields.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.fields)
}

// Encode renders the multipart body and its content type.
func (p *Payload) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range p.Fields() {
		if err := writer.WriteField(f.Name, f.Value); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
