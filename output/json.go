package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/c360studio/semschema/hierarchy"
)

// ErrNilModel is returned when asked to write a nil model.
var ErrNilModel = errors.New("nil model")

// Marshal encodes m. Map keys are emitted in sorted order, so equal models
// always produce identical bytes.
func Marshal(m *hierarchy.Model, pretty bool) ([]byte, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(m, "", "  ")
	} else {
		data, err = json.Marshal(m)
	}
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes m to w.
func WriteJSON(w io.Writer, m *hierarchy.Model, pretty bool) error {
	data, err := Marshal(m, pretty)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadJSON decodes a model previously written with WriteJSON.
func ReadJSON(r io.Reader) (*hierarchy.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a model document.
func Unmarshal(data []byte) (*hierarchy.Model, error) {
	var m hierarchy.Model
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if m.Schemas == nil {
		m.Schemas = make(map[string]*hierarchy.ResolvedSchema)
	}
	if m.Properties == nil {
		m.Properties = make(map[string]hierarchy.PropertyEntry)
	}
	return &m, nil
}

// ReadFile loads a model document from path.
func ReadFile(path string) (*hierarchy.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}
