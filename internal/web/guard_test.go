package web

import "testing"

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/dashboard"},
		{"/reports?start_date=2025-01-01", "/reports?start_date=2025-01-01"},
		{"/workman/T100", "/workman/T100"},
		{"https://evil.example", "/dashboard"},
		{"//evil.example", "/dashboard"},
		{"/\\evil.example", "/dashboard"},
		{"dashboard", "/dashboard"},
	}
	for _, tt := range tests {
		if got := safeNext(tt.in); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSentence(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"workman not found":   "Workman not found",
		"name is required":    "Name is required",
		"élan":                "Élan",
		"Already capitalised": "Already capitalised",
	}
	for in, want := range tests {
		if got := sentence(in); got != want {
			t.Errorf("sentence(%q) = %q, want %q", in, got, want)
		}
	}
}
