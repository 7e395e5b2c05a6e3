package model

import (
	"fmt"
	"strings"
)

// ValidationError is returned when an upload is neither named nor typed as a ZIP archive.
type ValidationError struct {
	Kind        ArchiveKind
	Filename    string
	ContentType string
}

func (e *ValidationError) Error() string {
	if e.Kind == ArchiveResults {
		return fmt.Sprintf("Expected a ZIP archive for results. Received file '%s' of type '%s'.", e.Filename, e.ContentType)
	}
	return fmt.Sprintf("Expected a ZIP archive. Received file '%s' of type '%s'.", e.Filename, e.ContentType)
}

type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func MissingField(name string) FieldError {
	return FieldError{
		Loc:  []string{"body", name},
		Msg:  "field required",
		Type: "value_error.missing",
	}
}

// RequestError reports form fields that were required but absent or empty.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Loc[len(f.Loc)-1])
	}
	return "missing required fields: " + strings.Join(names, ", ")
}
