package landmark

import (
	"encoding/json"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestSet_At(t *testing.T) {
	s := NeutralFace()

	t.Run("returns reported landmark", func(t *testing.T) {
		p, ok := s.At(NoseTip)
		if !ok {
			t.Fatal("expected nose tip to be present")
		}
		if math.Abs(p.X-0.5) > epsilon {
			t.Errorf("expected nose X 0.5, got %f", p.X)
		}
	})

	t.Run("out of range is missing", func(t *testing.T) {
		if _, ok := s.At(FaceMeshSize); ok {
			t.Error("expected index past the end to be missing")
		}
		if _, ok := s.At(-1); ok {
			t.Error("expected negative index to be missing")
		}
	})

	t.Run("NaN point is missing", func(t *testing.T) {
		partial := Without(s, NoseTip)
		if _, ok := partial.At(NoseTip); ok {
			t.Error("expected removed landmark to be missing")
		}
		if _, ok := s.At(NoseTip); !ok {
			t.Error("Without must not modify the original set")
		}
	})

	t.Run("short set from a smaller model", func(t *testing.T) {
		short := s[:100]
		if _, ok := short.At(LeftCheek); ok {
			t.Error("expected cheek beyond a 100-point set to be missing")
		}
	})
}

func TestSet_Empty(t *testing.T) {
	var none Set
	if !none.Empty() {
		t.Error("nil set should be empty")
	}
	if NeutralFace().Empty() {
		t.Error("neutral face should not be empty")
	}
}

func TestSet_UnmarshalJSON(t *testing.T) {
	t.Run("null entries become missing", func(t *testing.T) {
		var s Set
		data := []byte(`[{"x":0.1,"y":0.2,"z":0.0},null,{"x":0.3,"y":0.4}]`)
		if err := json.Unmarshal(data, &s); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if len(s) != 3 {
			t.Fatalf("expected 3 points, got %d", len(s))
		}
		if _, ok := s.At(1); ok {
			t.Error("expected null entry to be missing, not the origin")
		}
		p, ok := s.At(2)
		if !ok || math.Abs(p.Y-0.4) > epsilon {
			t.Errorf("expected third point y=0.4, got %+v (ok=%v)", p, ok)
		}
	})

	t.Run("null array is no face", func(t *testing.T) {
		var s Set
		if err := json.Unmarshal([]byte(`null`), &s); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !s.Empty() {
			t.Error("expected null landmarks to decode as an empty set")
		}
	})

	t.Run("rejects non-array", func(t *testing.T) {
		var s Set
		if err := json.Unmarshal([]byte(`{"x":1}`), &s); err == nil {
			t.Error("expected error for object input")
		}
	})
}

func TestDistance(t *testing.T) {
	d := Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4, Z: 10})
	if math.Abs(d-5) > epsilon {
		t.Errorf("expected planar distance 5, got %f", d)
	}
}

func TestSet_MarshalJSON_RoundTripsMissing(t *testing.T) {
	s := Without(NeutralFace(), LeftCheek)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Set
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(decoded) != FaceMeshSize {
		t.Fatalf("expected %d points, got %d", FaceMeshSize, len(decoded))
	}
	if _, ok := decoded.At(LeftCheek); ok {
		t.Error("expected missing cheek to survive encoding as null")
	}
	if _, ok := decoded.At(RightCheek); !ok {
		t.Error("expected right cheek to be present")
	}
}
