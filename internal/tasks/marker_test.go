package tasks

import "testing"

func TestMarkerRoundTrip(t *testing.T) {
	cases := []string{
		"Review chapter 3",
		"",
		"✅ trailing marker inside ✅ text",
		"  leading spaces",
	}
	for _, summary := range cases {
		if got := Strip(Mark(summary)); got != summary {
			t.Fatalf("Strip(Mark(%q)) = %q", summary, got)
		}
	}
}

func TestMarkIdempotent(t *testing.T) {
	once := Mark("Daily standup")
	if got := Mark(once); got != once {
		t.Fatalf("Mark(Mark(s)) = %q, want %q", got, once)
	}
}

func TestIsCompleted(t *testing.T) {
	cases := []struct {
		summary string
		want    bool
	}{
		{"✅ done", true},
		{"✅done", false}, // missing space: not the marker
		{"done", false},
		{" ✅ done", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsCompleted(tc.summary); got != tc.want {
			t.Fatalf("IsCompleted(%q) = %v, want %v", tc.summary, got, tc.want)
		}
	}
}

func TestToggle(t *testing.T) {
	original := "Write lab report"
	toggled := Toggle(original)
	if !IsCompleted(toggled) {
		t.Fatalf("Toggle(%q) = %q, not completed", original, toggled)
	}
	if got := Toggle(toggled); got != original {
		t.Fatalf("double toggle = %q, want %q", got, original)
	}
}
