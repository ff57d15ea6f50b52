package services

import (
	"testing"
	"time"
)

func TestParseRouterOSDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1d2h3m4s", 1*86400 + 2*3600 + 3*60 + 4, true},
		{"29d23h59m58s", 29*86400 + 23*3600 + 59*60 + 58, true},
		{"5m", 300, true},
		{"45s", 45, true},
		{"2h30m", 2*3600 + 30*60, true},
		{"0s", 0, true},
		{"0m0s", 0, true},
		// A wholly malformed string is a no-match signal, never zero.
		{"garbage", 0, false},
		{"", 0, false},
		{"1h30", 0, false},
		{"h", 0, false},
		{"1s2m", 0, false}, // fields out of order
		{"-5s", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseRouterOSDuration(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseRouterOSDuration(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseRouterOSDuration(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseRouterOSDurationZeroDistinctFromNoMatch(t *testing.T) {
	zero, ok := ParseRouterOSDuration("0s")
	if !ok || zero != 0 {
		t.Fatalf("expected 0s to parse to 0, got %d ok=%v", zero, ok)
	}
	if _, ok := ParseRouterOSDuration("garbage"); ok {
		t.Fatal("expected garbage to be a no-match, got a value")
	}
}

func TestParseCommentDue(t *testing.T) {
	due, ok := ParseCommentDue(`{"dueDateTime":"2026-03-01T12:00:00Z"}`)
	if !ok {
		t.Fatal("expected dueDateTime to parse")
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("dueDateTime = %v, want %v", due, want)
	}

	due, ok = ParseCommentDue(`{"dueDate":"2026-03-01"}`)
	if !ok {
		t.Fatal("expected dueDate to parse")
	}
	if due.Year() != 2026 || due.Month() != 3 || due.Day() != 1 {
		t.Fatalf("unexpected dueDate: %v", due)
	}

	// dueDateTime wins over dueDate when both are present.
	due, ok = ParseCommentDue(`{"dueDateTime":"2026-03-01T12:00:00Z","dueDate":"2027-01-01"}`)
	if !ok || due.Year() != 2026 {
		t.Fatalf("expected dueDateTime to take precedence, got %v ok=%v", due, ok)
	}

	if _, ok := ParseCommentDue("plain text comment"); ok {
		t.Fatal("expected malformed comment to be a no-match")
	}
	if _, ok := ParseCommentDue(`{"other":"keys"}`); ok {
		t.Fatal("expected absent keys to be a no-match")
	}
}
