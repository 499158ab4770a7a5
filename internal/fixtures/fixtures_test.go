package fixtures

import (
	"encoding/json"
	"testing"
)

func TestTuning(t *testing.T) {
	for _, name := range []string{"fast", "strict"} {
		data, err := Tuning(name)
		if err != nil {
			t.Fatalf("Tuning(%q) error = %v", name, err)
		}
		if !json.Valid(data) {
			t.Errorf("tuning %s is not valid JSON", name)
		}
	}

	if _, err := Tuning("missing"); err == nil {
		t.Error("expected error for missing fixture")
	}
}

func TestLoadChallenges(t *testing.T) {
	challenges, err := LoadChallenges("short")
	if err != nil {
		t.Fatalf("LoadChallenges() error = %v", err)
	}
	if len(challenges) != 3 {
		t.Fatalf("expected 3 challenges, got %d", len(challenges))
	}
	if challenges[0].ID != "mouth" || challenges[2].Type != "smile" {
		t.Errorf("unexpected challenges: %+v", challenges)
	}
}
