package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateLenient(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		want      string
	}{
		{"2021-10-22", true, "2021-10-22"},
		{"", false, ""},
		{"2021", false, ""},
		{"22/10/2021", false, ""},
		{"2021-13-01", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDateLenient(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("ParseDateLenient(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDateLenient(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestNullDate_Scan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"text", "2002-06-09", "2002-06-09"},
		{"bytes", []byte("2002-06-09"), "2002-06-09"},
		{"text with time", "2002-06-09T00:00:00Z", "2002-06-09"},
		{"time", time.Date(2002, time.June, 9, 0, 0, 0, 0, time.UTC), "2002-06-09"},
		{"garbage", "soon", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d NullDate
			if err := d.Scan(tt.value); err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if d.String() != tt.want {
				t.Errorf("Scan(%v) = %q, want %q", tt.value, d.String(), tt.want)
			}
		})
	}

	var d NullDate
	if err := d.Scan(42); err == nil {
		t.Error("Expected error scanning an integer")
	}
}

func TestNullDate_Value(t *testing.T) {
	v, err := NullDate{}.Value()
	if err != nil || v != nil {
		t.Errorf("Value() of empty date = %v, %v; want nil, nil", v, err)
	}

	v, err = NewDate(2021, time.October, 22).Value()
	if err != nil {
		t.Fatalf("Value() failed: %v", err)
	}
	if v != "2021-10-22" {
		t.Errorf("Value() = %v, want 2021-10-22", v)
	}
}

func TestNullDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		wantErr   bool
	}{
		{`"2024-02-29"`, true, false},
		{`null`, false, false},
		{`""`, false, false},
		{`"2024-02-30"`, false, true},
		{`20240229`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d NullDate
			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if d.Valid != tt.wantValid {
				t.Errorf("Unmarshal(%s).Valid = %v, want %v", tt.input, d.Valid, tt.wantValid)
			}
		})
	}
}

func TestStringSlice_Scan(t *testing.T) {
	var s StringSlice
	if err := s.Scan(`["Drama","Crime","Thriller"]`); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(s) != 3 || s[0] != "Drama" || s[2] != "Thriller" {
		t.Errorf("Scan = %v", s)
	}

	if err := s.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if s == nil || len(s) != 0 {
		t.Errorf("Scan(nil) = %#v, want empty slice", s)
	}
}
