package api

import (
	"io"
	"net/http"

	"gocv.io/x/gocv"

	"github.com/ayusman/proofme/internal/quality"
)

// MaxImageBytes bounds the body of POST /api/quality.
const MaxImageBytes = 10 << 20

// QualityHandler scores an uploaded still image.
type QualityHandler struct{}

// NewQualityHandler creates a new QualityHandler.
func NewQualityHandler() *QualityHandler {
	return &QualityHandler{}
}

// ServeHTTP handles POST /api/quality with a JPEG or PNG body.
func (h *QualityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImageBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Image too large")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Image body is required")
		return
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image")
		return
	}
	defer mat.Close()

	if mat.Empty() {
		writeError(w, http.StatusBadRequest, "Invalid image")
		return
	}

	img, err := mat.ToImage()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to convert image")
		return
	}

	writeJSON(w, http.StatusOK, quality.Analyze(img))
}
