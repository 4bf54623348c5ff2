package extract

import (
	"bytes"
	"encoding/json"
)

// Record is the aggregated result for one rasterized page: the 1-based page
// number plus the recognized value of every field that applied to the page.
// Records are built once during extraction and only read thereafter.
type Record struct {
	// Page is the 1-based page number the record was extracted from.
	Page int

	names  []string
	values map[string]string
}

// NewRecord creates an empty record for the given page.
func NewRecord(page int) *Record {
	return &Record{Page: page, values: make(map[string]string)}
}

// Set stores a field value. First-set order is preserved for serialization.
func (r *Record) Set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns a field value and whether the field was extracted on this page.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// FieldNames returns the extracted field names in extraction order.
func (r *Record) FieldNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// MarshalJSON emits one JSON object per record: the "Page" key first, then
// the fields in extraction order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"Page":`)
	page, err := json.Marshal(r.Page)
	if err != nil {
		return nil, err
	}
	buf.Write(page)
	for _, name := range r.names {
		buf.WriteByte(',')
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
