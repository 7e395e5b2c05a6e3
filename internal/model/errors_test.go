package model

import "testing"

func TestValidationErrorMessage(t *testing.T) {
	tests := []struct {
		kind ArchiveKind
		want string
	}{
		{ArchiveTesting, "Expected a ZIP archive. Received file 'data.txt' of type 'text/plain'."},
		{ArchiveResults, "Expected a ZIP archive for results. Received file 'data.txt' of type 'text/plain'."},
	}

	for _, tt := range tests {
		err := &ValidationError{Kind: tt.kind, Filename: "data.txt", ContentType: "text/plain"}
		if got := err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestRequestErrorNamesFields(t *testing.T) {
	err := &RequestError{Fields: []FieldError{MissingField("user_key"), MissingField("file")}}
	if got, want := err.Error(), "missing required fields: user_key, file"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
