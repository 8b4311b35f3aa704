package usecase

import (
	"context"
	"io"
	"time"

	"github.com/shandysiswandi/growguard/internal/diagnosis/entity"
	"github.com/shandysiswandi/growguard/internal/diagnosis/outbound/classifier"
	"github.com/shandysiswandi/growguard/internal/pkg/clock"
	"github.com/shandysiswandi/growguard/internal/pkg/config"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/uid"
	"go.opentelemetry.io/otel/trace"
)

type repoBlob interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type repoClassifier interface {
	Classify(ctx context.Context, image []byte, contentType string) (classifier.Prediction, error)
}

type Usecase struct {
	repoBlob       repoBlob
	repoClassifier repoClassifier
	catalog        *entity.Catalog
	cfg            config.Config
	oid            uid.StringID
	clock          clock.Clocker
	ins            instrument.Instrumentation
}

type Dependency struct {
	RepoBlob       repoBlob
	RepoClassifier repoClassifier
	Catalog        *entity.Catalog
	Config         config.Config
	OID            uid.StringID
	Clock          clock.Clocker
	Instrument     instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoBlob:       dep.RepoBlob,
		repoClassifier: dep.RepoClassifier,
		catalog:        dep.Catalog,
		cfg:            dep.Config,
		oid:            dep.OID,
		clock:          dep.Clock,
		ins:            dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("diagnosis.usecase").Start(ctx, name)
}
