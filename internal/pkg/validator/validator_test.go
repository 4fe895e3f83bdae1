package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", " 2024-06-25 "}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", "", "abc"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"17:00", "09:30", "9:30", "23:59"}
	invalid := []string{"24:00", "17:60", "5pm", "", "17"}
	for _, c := range valid {
		if _, ok := IsValidClock(c); !ok {
			t.Errorf("IsValidClock(%q) = false, want true", c)
		}
	}
	for _, c := range invalid {
		if _, ok := IsValidClock(c); ok {
			t.Errorf("IsValidClock(%q) = true, want false", c)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"debug", "info", "warn"}
	if !IsInSlice("info", slice) {
		t.Error("IsInSlice(info) = false, want true")
	}
	if !IsInSlice("WARN", slice) {
		t.Error("IsInSlice(WARN) = false, want true")
	}
	if IsInSlice("trace", slice) {
		t.Error("IsInSlice(trace) = true, want false")
	}
}

func TestIsInRange(t *testing.T) {
	if !IsInRange(1, 1, 28) || !IsInRange(28, 1, 28) {
		t.Error("IsInRange bounds should be inclusive")
	}
	if IsInRange(0, 1, 28) || IsInRange(29, 1, 28) {
		t.Error("IsInRange accepted a value outside the range")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "invalid"},
		{Field: "end_date", Message: "required"},
	}
	if got, want := errs.Error(), "start_date: invalid; end_date: required"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	m := errs.ToMap()
	if m["start_date"] != "invalid" || m["end_date"] != "required" {
		t.Errorf("ToMap() = %v", m)
	}
}
