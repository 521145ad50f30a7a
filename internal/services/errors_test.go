package services_test

import (
	"errors"
	"strings"
	"testing"

	"reeldocs/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("boom")
	err := services.Wrap(services.ErrExternalService, "extract", "submit", "upload rejected", cause)

	if !errors.Is(err, services.ErrExternalService) {
		t.Fatal("expected wrapped error to match marker")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped error to preserve cause")
	}
	for _, fragment := range []string{"extract", "submit", "upload rejected", "boom"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("error %q missing fragment %q", err.Error(), fragment)
		}
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := services.Wrap(nil, "translate", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatal("expected nil marker to default to ErrTransient")
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{services.Wrap(services.ErrNotFound, "", "", "gone", nil), "not_found"},
		{services.Wrap(services.ErrInvalidState, "", "", "", nil), "invalid_state"},
		{services.Wrap(services.ErrTimeout, "extract", "poll", "", nil), "timeout"},
		{errors.New("plain"), "unknown"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
