package detector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/ayusman/proofme/internal/landmark"
)

func TestMockDetector(t *testing.T) {
	t.Run("returns no faces by default", func(t *testing.T) {
		mock := NewMockDetector()

		faces, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if faces != nil {
			t.Errorf("expected nil faces, got %v", faces)
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured face", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetFace(landmark.SmilingFace())

		faces, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(faces) != 1 {
			t.Fatalf("expected 1 face, got %d", len(faces))
		}
		if len(faces[0].Landmarks) != landmark.FaceMeshSize {
			t.Errorf("expected %d landmarks, got %d", landmark.FaceMeshSize, len(faces[0].Landmarks))
		}
	})

	t.Run("nil face clears detection", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetFace(landmark.NeutralFace())
		mock.SetFace(nil)

		faces, _ := mock.Detect(nil)
		if len(faces) != 0 {
			t.Errorf("expected no faces, got %d", len(faces))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		faces, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if faces != nil {
			t.Errorf("expected nil faces when error is set, got %v", faces)
		}
	})

	t.Run("Close marks closed", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
		if !mock.Closed() {
			t.Error("expected mock to report closed")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPrimary(t *testing.T) {
	if !Primary(nil).Empty() {
		t.Error("expected empty set when no face is detected")
	}

	first := landmark.TurnedLeftFace()
	faces := []Face{{Landmarks: first}, {Landmarks: landmark.NeutralFace()}}
	got := Primary(faces)
	if p, _ := got.At(landmark.NoseTip); p.X != 0.56 {
		t.Errorf("expected first face nose X 0.56, got %f", p.X)
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame failed: %v", err)
	}

	out := buf.Bytes()
	if len(out) != 4+len(payload) {
		t.Fatalf("expected %d bytes, got %d", 4+len(payload), len(out))
	}
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("expected length prefix %d, got %d", len(payload), n)
	}
	if !bytes.Equal(out[4:], payload) {
		t.Error("payload not written verbatim after the prefix")
	}
}

func TestReadFaces(t *testing.T) {
	t.Run("decodes faces with missing points", func(t *testing.T) {
		line := `{"faces":[{"score":0.9,"points":[{"x":0.1,"y":0.2,"z":0},null]}]}` + "\n"
		faces, err := readFaces(bufio.NewReader(strings.NewReader(line)))
		if err != nil {
			t.Fatalf("readFaces failed: %v", err)
		}
		if len(faces) != 1 {
			t.Fatalf("expected 1 face, got %d", len(faces))
		}
		if faces[0].Score != 0.9 {
			t.Errorf("expected score 0.9, got %f", faces[0].Score)
		}
		if _, ok := faces[0].Landmarks.At(1); ok {
			t.Error("expected null point to be missing")
		}
	})

	t.Run("no faces", func(t *testing.T) {
		faces, err := readFaces(bufio.NewReader(strings.NewReader("{\"faces\":[]}\n")))
		if err != nil {
			t.Fatalf("readFaces failed: %v", err)
		}
		if len(faces) != 0 {
			t.Errorf("expected no faces, got %d", len(faces))
		}
	})

	t.Run("drops faces without points", func(t *testing.T) {
		faces, err := readFaces(bufio.NewReader(strings.NewReader("{\"faces\":[{\"score\":0.2,\"points\":null}]}\n")))
		if err != nil {
			t.Fatalf("readFaces failed: %v", err)
		}
		if len(faces) != 0 {
			t.Errorf("expected pointless face to be dropped, got %d", len(faces))
		}
	})

	t.Run("service error", func(t *testing.T) {
		_, err := readFaces(bufio.NewReader(strings.NewReader("{\"error\":\"model not loaded\"}\n")))
		if err == nil || !strings.Contains(err.Error(), "model not loaded") {
			t.Errorf("expected service error, got %v", err)
		}
	})

	t.Run("malformed line", func(t *testing.T) {
		_, err := readFaces(bufio.NewReader(strings.NewReader("not json\n")))
		if err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("closed stream", func(t *testing.T) {
		_, err := readFaces(bufio.NewReader(strings.NewReader("")))
		if err == nil {
			t.Error("expected read error on EOF")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxFaces != 1 {
		t.Errorf("expected MaxFaces 1, got %d", cfg.MaxFaces)
	}
	if cfg.IdleTimeout <= 0 {
		t.Errorf("expected positive idle timeout, got %v", cfg.IdleTimeout)
	}
}
