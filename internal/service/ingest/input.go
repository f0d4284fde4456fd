package ingest

import (
	"crypto/subtle"
	"io"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

// MaxMetadataLen bounds each free-form registry field.
const MaxMetadataLen = 2000

// Input holds one upload. File is read once, during the persist stage.
type Input struct {
	Name          string
	Password      string
	Filename      string
	File          io.Reader
	Metadata      domain.TaskMetadata
	PreserveOrder bool
}

// Result describes a finished ingestion.
type Result struct {
	TaskID string
	Rows   int64
}

// Validate checks all fields and collects all errors. The shared secret is
// checked separately by authorize.
func (i Input) Validate() error {
	var errs []domain.FieldError

	if i.File == nil {
		errs = append(errs, domain.FieldError{Field: "file", Message: "required"})
	}
	if !strings.EqualFold(filepath.Ext(i.Filename), ".csv") {
		errs = append(errs, domain.FieldError{Field: "file", Message: "must be a .csv file"})
	}
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if _, err := domain.ParseTaskName(i.Name); err != nil {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must contain 1 to 55 letters"})
	}

	for _, f := range []struct{ field, value string }{
		{"title", i.Metadata.Title},
		{"source", i.Metadata.Source},
		{"owner", i.Metadata.Owner},
		{"description", i.Metadata.Description},
	} {
		if len(f.value) > MaxMetadataLen {
			errs = append(errs, domain.FieldError{Field: f.field, Message: "max 2000 characters"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// authorize compares the supplied password with the shared secret in
// constant time.
func authorize(password, secret string) error {
	if secret == "" || subtle.ConstantTimeCompare([]byte(password), []byte(secret)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}
