package config

import "testing"

func TestKeyLane(t *testing.T) {
	orig := *keys
	defer func() { *keys = orig }()
	*keys = "qwer"

	if got := string(Keys()); got != "qwer" {
		t.Fatalf("Keys() = %q, expected %q", got, "qwer")
	}
	lanes := map[rune]int{
		'q': 0,
		'w': 1,
		'e': 2,
		'r': 3,
		'a': -1,
		'Q': -1,
	}
	for r, want := range lanes {
		if got := KeyLane(r); got != want {
			t.Errorf("KeyLane(%q) = %v, expected %v", r, got, want)
		}
	}
}

func TestKeyLaneUnconfigured(t *testing.T) {
	orig := *keys
	defer func() { *keys = orig }()
	*keys = ""

	if got := KeyLane('a'); got != -1 {
		t.Fatalf("KeyLane with no layout = %v, expected -1", got)
	}
}
