// Package liveness implements the challenge sequencing engine: per-frame gesture
// classification, hold/decay smoothing and the ordered challenge state machine.
package liveness

import (
	"errors"
	"fmt"
)

// GestureType identifies the facial gesture a challenge asks for.
type GestureType string

const (
	GestureSmile     GestureType = "smile"
	GestureBlink     GestureType = "blink"
	GestureTurnLeft  GestureType = "turnLeft"
	GestureTurnRight GestureType = "turnRight"
	GestureOpenMouth GestureType = "openMouth"
)

// GestureTypes returns every supported gesture type.
func GestureTypes() []GestureType {
	return []GestureType{
		GestureSmile,
		GestureBlink,
		GestureTurnLeft,
		GestureTurnRight,
		GestureOpenMouth,
	}
}

// Valid reports whether g is one of the supported gesture types.
func (g GestureType) Valid() bool {
	for _, t := range GestureTypes() {
		if g == t {
			return true
		}
	}
	return false
}

// ErrInvalidChallenges is returned when a challenge list cannot drive a session.
var ErrInvalidChallenges = errors.New("invalid challenge list")

// Challenge is one required gesture in the verification sequence.
type Challenge struct {
	ID          string      `json:"id"`
	Type        GestureType `json:"type"`
	Label       string      `json:"label"`
	Emoji       string      `json:"emoji,omitempty"`
	Instruction string      `json:"instruction"`
	Tip         string      `json:"tip,omitempty"`
}

// DefaultChallenges returns the standard five-step sequence.
func DefaultChallenges() []Challenge {
	return []Challenge{
		{ID: "smile", Type: GestureSmile, Label: "Smile", Emoji: "😊", Instruction: "Show us that smile!", Tip: "Flash those teeth"},
		{ID: "blink", Type: GestureBlink, Label: "Blink", Emoji: "😉", Instruction: "Give us a wink!", Tip: "Close both eyes completely"},
		{ID: "turnLeft", Type: GestureTurnLeft, Label: "Left", Emoji: "👈", Instruction: "Look to your left", Tip: "Turn about 30 degrees"},
		{ID: "turnRight", Type: GestureTurnRight, Label: "Right", Emoji: "👉", Instruction: "Look to your right", Tip: "Turn about 30 degrees"},
		{ID: "openMouth", Type: GestureOpenMouth, Label: "Surprise", Emoji: "😮", Instruction: "Show us surprised!", Tip: "Open wide like 'Woah!'"},
	}
}

// ValidateChallenges checks that a list is non-empty, that IDs are present and
// unique, and that every type is supported.
func ValidateChallenges(challenges []Challenge) error {
	if len(challenges) == 0 {
		return fmt.Errorf("%w: no challenges", ErrInvalidChallenges)
	}

	seen := make(map[string]bool, len(challenges))
	for i, c := range challenges {
		if c.ID == "" {
			return fmt.Errorf("%w: challenge %d has no id", ErrInvalidChallenges, i)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidChallenges, c.ID)
		}
		seen[c.ID] = true

		if !c.Type.Valid() {
			return fmt.Errorf("%w: challenge %q has unknown type %q", ErrInvalidChallenges, c.ID, c.Type)
		}
	}

	return nil
}
