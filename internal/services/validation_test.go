package services

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string   `json:"name" validate:"required,max=5"`
	Tags  []string `json:"tags" validate:"min=1"`
	Kind  string   `json:"kind" validate:"oneof=a b"`
	Count int      `json:"-" validate:"min=2"`
}

func TestValidator_FieldMessages(t *testing.T) {
	v := NewValidator()
	err := v.Struct(sample{Name: "toolong", Kind: "c", Count: 1})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	want := map[string]string{
		"name":  "must not exceed 5 characters",
		"tags":  "must contain at least 1 item(s)",
		"kind":  "must be one of: a b",
		"Count": "must be at least 2",
	}
	for k, msg := range want {
		if ve.Fields[k] != msg {
			t.Fatalf("field %s = %q; want %q", k, ve.Fields[k], msg)
		}
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("ValidationError must unwrap to ErrInvalidInput")
	}
	// Keys are sorted in the message.
	if !strings.HasPrefix(err.Error(), "invalid input: Count ") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestValidator_OK(t *testing.T) {
	if err := NewValidator().Struct(sample{Name: "ok", Tags: []string{"x"}, Kind: "a", Count: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (&ValidationError{}).Error() != "invalid input" {
		t.Fatalf("empty ValidationError message")
	}
}
