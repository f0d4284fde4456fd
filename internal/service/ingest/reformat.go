package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/tofix-backend/internal/adapter/uploads"
	"github.com/heartmarshall/tofix-backend/internal/domain"
)

// Reformatted is the output of a ReformatFunc.
type Reformatted struct {
	Path string
	Rows int64
}

// ReformatCSV reads a raw upload with a header row and writes the headerless
// (key, value) file next to it. A header with both "key" and "value" columns
// is passed through; otherwise the "key" column, or the first column, is the
// key and the remaining columns become a JSON object value.
func ReformatCSV(rawPath string) (Reformatted, error) {
	in, err := os.Open(rawPath)
	if err != nil {
		return Reformatted{}, fmt.Errorf("open raw upload: %w", err)
	}
	defer in.Close()

	cleanPath := uploads.CleanPath(rawPath)
	out, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640)
	if err != nil {
		return Reformatted{}, fmt.Errorf("create clean file: %w", err)
	}

	w := bufio.NewWriter(out)
	rows, err := reformat(in, w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(cleanPath)
		return Reformatted{}, err
	}

	return Reformatted{Path: cleanPath, Rows: rows}, nil
}

func reformat(r io.Reader, w io.Writer) (int64, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, domain.NewValidationError("file", "missing header row")
	}
	if err != nil {
		return 0, csvError(err)
	}
	if err := checkText(cr, header); err != nil {
		return 0, err
	}

	names := make([]string, len(header))
	keyIdx, valueIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("column%d", i+1)
		}
		names[i] = h
		switch strings.ToLower(h) {
		case "key":
			keyIdx = i
		case "value":
			valueIdx = i
		}
	}
	passthrough := keyIdx >= 0 && valueIdx >= 0
	if keyIdx < 0 {
		keyIdx = 0
	}

	cw := csv.NewWriter(w)
	var rows int64
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, csvError(err)
		}
		if err := checkText(cr, rec); err != nil {
			return rows, err
		}

		key := strings.TrimSpace(rec[keyIdx])
		if key == "" {
			line, _ := cr.FieldPos(keyIdx)
			return rows, domain.NewValidationError("file", fmt.Sprintf("line %d: empty key", line))
		}

		var value string
		if passthrough {
			value = rec[valueIdx]
		} else {
			obj := make(map[string]string, len(rec)-1)
			for i, v := range rec {
				if i != keyIdx {
					obj[names[i]] = v
				}
			}
			b, err := json.Marshal(obj)
			if err != nil {
				return rows, fmt.Errorf("encode value: %w", err)
			}
			value = string(b)
		}

		if err := cw.Write([]string{key, value}); err != nil {
			return rows, fmt.Errorf("write clean file: %w", err)
		}
		rows++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("write clean file: %w", err)
	}
	if rows == 0 {
		return 0, domain.NewValidationError("file", "no data rows")
	}
	return rows, nil
}

// checkText rejects fields PostgreSQL cannot store as text.
func checkText(cr *csv.Reader, rec []string) error {
	for i, f := range rec {
		if !utf8.ValidString(f) || strings.ContainsRune(f, 0) {
			line, _ := cr.FieldPos(i)
			return domain.NewValidationError("file", fmt.Sprintf("line %d: invalid UTF-8", line))
		}
	}
	return nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return domain.NewValidationError("file", pe.Error())
	}
	return fmt.Errorf("read raw upload: %w", err)
}
