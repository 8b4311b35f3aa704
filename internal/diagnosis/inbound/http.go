package inbound

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/shandysiswandi/growguard/internal/diagnosis/usecase"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
	"github.com/shandysiswandi/growguard/internal/pkg/router"
)

const defaultMaxImageBytes int64 = 10 << 20

type uc interface {
	Scan(ctx context.Context, in usecase.ScanInput) (*usecase.ScanOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, maxImageBytes int64) {
	if maxImageBytes <= 0 {
		maxImageBytes = defaultMaxImageBytes
	}
	end := &HTTPEndpoint{uc: uc, maxImageBytes: maxImageBytes}

	r.POST("/api/v1/diagnosis/scan", end.Scan) // need authenticated
}

type HTTPEndpoint struct {
	uc            uc
	maxImageBytes int64
}

type ScanResponse struct {
	ImageURL        string    `json:"image_url"`
	IsHealthy       bool      `json:"is_healthy"`
	DiseaseKey      string    `json:"disease_key"`
	DiseaseName     string    `json:"disease_name"`
	Confidence      float64   `json:"confidence"`
	DiagnosisPoints []string  `json:"diagnosis_points"`
	TipsPoints      []string  `json:"tips_points"`
	Date            time.Time `json:"date"`
}

func (ScanResponse) Message() string {
	return "Scan completed"
}

// Scan reads the multipart field "image" into memory, bounded by the
// configured maximum, and hands it to the usecase.
func (h *HTTPEndpoint) Scan(r *router.Request) (any, error) {
	file, err := r.StreamSingleFile("image", h.maxImageBytes+4096)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || int64(len(image)) > h.maxImageBytes {
		return nil, goerror.NewInvalidInput(nil, "image", "image is too large")
	}
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	out, err := h.uc.Scan(r.Context(), usecase.ScanInput{Filename: file.Filename, Image: image})
	if err != nil {
		return nil, err
	}

	return ScanResponse{
		ImageURL:        out.ImageURL,
		IsHealthy:       out.IsHealthy,
		DiseaseKey:      out.DiseaseKey,
		DiseaseName:     out.DiseaseName,
		Confidence:      out.Confidence,
		DiagnosisPoints: out.DiagnosisPoints,
		TipsPoints:      out.TipsPoints,
		Date:            out.Date,
	}, nil
}
