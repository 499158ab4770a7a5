// Package fixtures holds tuning files and challenge lists shared by the
// integration tests.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ayusman/proofme/internal/liveness"
)

//go:embed testdata/tuning/*.json testdata/challenges/*.json
var fixturesFS embed.FS

// Tuning returns the raw bytes of a tuning fixture.
func Tuning(name string) ([]byte, error) {
	data, err := fixturesFS.ReadFile("testdata/tuning/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load tuning %s: %w", name, err)
	}
	return data, nil
}

// LoadChallenges decodes a challenge list fixture and validates it.
func LoadChallenges(name string) ([]liveness.Challenge, error) {
	data, err := fixturesFS.ReadFile("testdata/challenges/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load challenges %s: %w", name, err)
	}

	var challenges []liveness.Challenge
	if err := json.Unmarshal(data, &challenges); err != nil {
		return nil, fmt.Errorf("decode challenges %s: %w", name, err)
	}
	if err := liveness.ValidateChallenges(challenges); err != nil {
		return nil, fmt.Errorf("challenges %s: %w", name, err)
	}
	return challenges, nil
}
