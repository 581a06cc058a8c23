package handler

import (
	"strings"
	"testing"
	"time"
)

func TestValidator_FieldNamesAndMessages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&serviceRequest{Name: "Wash", Description: "", Price: -1})
	ve := expectValidation(t, err, "description", "price")
	if ve["description"] != "must not be blank" {
		t.Fatalf("unexpected description message %q", ve["description"])
	}
	if ve["price"] != "must be greater than 0" {
		t.Fatalf("unexpected price message %q", ve["price"])
	}
	if !strings.HasPrefix(ve.Error(), "validation failed: description:") {
		t.Fatalf("unexpected error text %q", ve.Error())
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(&loginRequest{Username: "a", Password: "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_FutureOrPresent(t *testing.T) {
	fixed := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })
	v := NewValidator()

	cases := []struct {
		name string
		when time.Time
		ok   bool
	}{
		{"future", fixed.Add(time.Hour), true},
		{"present", fixed, true},
		{"within clock skew", fixed.Add(-30 * time.Second), true},
		{"past", fixed.Add(-2 * time.Minute), false},
		{"long ago", time.Date(1999, 1, 1, 9, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(&bookingRequest{ServiceIDs: []int64{1}, BookingDateTime: tc.when})
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			expectValidation(t, err, "bookingDateTime")
		})
	}
}
