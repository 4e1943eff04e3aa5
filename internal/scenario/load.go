package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for fixture files that are neither JSON
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported fixture format")

type validator interface {
	Validate() error
}

// Load decodes the file at path into a T. The format follows the file
// extension (.json, .yaml, .yml). Unknown fields, trailing content and
// failed validation are errors; no partial value is ever returned.
func Load[T any](path string) (T, error) {
	var zero T

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("read fixture: %w", err)
	}

	var v T
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = decodeJSON(data, &v)
	case ".yaml", ".yml":
		err = decodeYAML(data, &v)
	default:
		return zero, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", path, err)
	}

	if val, ok := any(&v).(validator); ok {
		if err := val.Validate(); err != nil {
			return zero, fmt.Errorf("validate %s: %w", path, err)
		}
	}
	return v, nil
}

// LoadUsers loads the users fixture.
func LoadUsers(path string) (*Users, error) {
	users, err := Load[Users](path)
	if err != nil {
		return nil, err
	}
	return &users, nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return errors.New("unexpected document after the first")
	}
	return nil
}
