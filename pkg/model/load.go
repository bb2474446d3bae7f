package model

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode reads a network document. JSON is accepted as well since it is
// a subset of YAML.
func Decode(r io.Reader) (*Network, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var n Network
	if err := dec.Decode(&n); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty network document: %w", ErrMissingTable)
		}
		return nil, fmt.Errorf("decoding network: %w", err)
	}
	return &n, nil
}

func LoadFile(path string) (*Network, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network file: %w", err)
	}
	n, err := Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
