package repository

import (
	"context"
	"fmt"
	"io"
	"os"

	"delivery_admin_backend/internal/search/domain"

	"gopkg.in/yaml.v3"
)

// seedDocument is the yaml layout of a seed file.
type seedDocument struct {
	Items []domain.Record `yaml:"items"`
}

// FileSource reads records from a yaml seed file on every fetch.
type FileSource struct {
	path string
}

// NewFileSource reads records from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) FetchRecords(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return DecodeSeed(f)
}

// DecodeSeed parses a yaml seed document.
func DecodeSeed(r io.Reader) ([]domain.Record, error) {
	var doc seedDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if doc.Items == nil {
		doc.Items = []domain.Record{}
	}
	return doc.Items, nil
}
