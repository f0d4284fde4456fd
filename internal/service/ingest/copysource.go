package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// csvSource streams a reformatted file into COPY without loading it in memory.
// It implements pgx.CopyFromSource.
type csvSource struct {
	f   *os.File
	r   *csv.Reader
	rec []string
	err error
}

func openCopySource(path string) (*csvSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clean file: %w", err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.ReuseRecord = true
	return &csvSource{f: f, r: r}, nil
}

func (s *csvSource) Next() bool {
	if s.err != nil {
		return false
	}
	rec, err := s.r.Read()
	if errors.Is(err, io.EOF) {
		return false
	}
	if err != nil {
		s.err = fmt.Errorf("read clean file: %w", err)
		return false
	}
	s.rec = rec
	return true
}

func (s *csvSource) Values() ([]any, error) {
	return []any{s.rec[0], s.rec[1]}, nil
}

func (s *csvSource) Err() error { return s.err }

func (s *csvSource) Close() error { return s.f.Close() }
