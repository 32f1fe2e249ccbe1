package landscape

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Encode writes the document as YAML with two-space indentation.
func Encode(w io.Writer, doc *Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encoding landscape YAML: %w", err)
	}
	return encoder.Close()
}

// Marshal renders the document to bytes.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the document fully in memory before touching path, so a
// rendering failure never leaves a truncated file behind.
func WriteFile(path string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: creating output directory: %v", ErrIO, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, path, err)
	}
	return nil
}

// ReadFile loads a previously generated data.yml.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading landscape file %s: %v", ErrIO, path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing landscape file %s: %v", ErrParse, path, err)
	}
	return &doc, nil
}
