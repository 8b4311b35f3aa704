package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
	"github.com/shandysiswandi/growguard/internal/pkg/jwt"
)

var (
	ErrAuthRequired     = goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	ErrUnsupportedImage = goerror.NewBusiness("Only png, jpg and jpeg images are allowed", goerror.CodeInvalidInput)
)

var allowedImages = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

type ScanInput struct {
	Filename string
	Image    []byte
}

type ScanOutput struct {
	ImageURL        string
	IsHealthy       bool
	DiseaseKey      string
	DiseaseName     string
	Confidence      float64
	DiagnosisPoints []string
	TipsPoints      []string
	Date            time.Time
}

// Scan stores the uploaded leaf photo, classifies it and explains the
// result from the catalog. Nothing about the scan is persisted besides the
// image itself.
func (s *Usecase) Scan(ctx context.Context, in ScanInput) (*ScanOutput, error) {
	ctx, span := s.startSpan(ctx, "Scan")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, ErrAuthRequired
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	contentType, ok := allowedImages[ext]
	if !ok || len(in.Image) == 0 {
		return nil, ErrUnsupportedImage
	}
	if http.DetectContentType(in.Image) != contentType {
		slog.WarnContext(ctx, "image content does not match its extension", "filename", in.Filename)
		return nil, ErrUnsupportedImage
	}

	key := "scans/" + strconv.FormatInt(clm.SubjectID, 10) + "/" + s.oid.Generate() + ext
	if err := s.repoBlob.Put(ctx, key, bytes.NewReader(in.Image), int64(len(in.Image)), contentType); err != nil {
		slog.ErrorContext(ctx, "failed to store scan image", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	pred, err := s.repoClassifier.Classify(ctx, in.Image, contentType)
	if err != nil {
		slog.ErrorContext(ctx, "failed to classify scan image", "key", key, "error", err)
		if derr := s.repoBlob.Delete(ctx, key); derr != nil {
			slog.WarnContext(ctx, "failed to delete orphan scan image", "key", key, "error", derr)
		}
		return nil, goerror.NewServer(err)
	}

	disease, healthy := s.catalog.Lookup(pred.Label)

	expiry := s.cfg.GetMinute("modules.diagnosis.presign_expiry_minutes")
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	url, err := s.repoBlob.PresignGet(ctx, key, expiry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign scan image", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ScanOutput{
		ImageURL:        url,
		IsHealthy:       healthy,
		DiseaseKey:      disease.Key,
		DiseaseName:     disease.Name,
		Confidence:      math.Round(pred.Confidence*10000) / 100,
		DiagnosisPoints: disease.Diagnosis,
		TipsPoints:      disease.Tips,
		Date:            s.clock.Now(),
	}, nil
}
