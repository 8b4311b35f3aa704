package diagnosis

import (
	"github.com/shandysiswandi/growguard/internal/diagnosis/entity"
	"github.com/shandysiswandi/growguard/internal/diagnosis/inbound"
	"github.com/shandysiswandi/growguard/internal/diagnosis/outbound/blob"
	"github.com/shandysiswandi/growguard/internal/diagnosis/outbound/classifier"
	"github.com/shandysiswandi/growguard/internal/diagnosis/usecase"
	"github.com/shandysiswandi/growguard/internal/pkg/clock"
	"github.com/shandysiswandi/growguard/internal/pkg/config"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/router"
	"github.com/shandysiswandi/growguard/internal/pkg/storage"
	"github.com/shandysiswandi/growguard/internal/pkg/uid"
	"github.com/shandysiswandi/growguard/internal/pkg/validator"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	OID        uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	catalog, err := entity.LoadCatalog()
	if err != nil {
		return err
	}

	cls, err := classifier.New(classifier.Config{
		URL:        dep.Config.GetString("modules.diagnosis.classifier.url"),
		Timeout:    dep.Config.GetSecond("modules.diagnosis.classifier.timeout_seconds"),
		MaxRetries: uint64(dep.Config.GetUint("modules.diagnosis.classifier.max_retries")),
	}, dep.Instrument)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoBlob:       blob.New(dep.Storage, dep.Instrument),
		RepoClassifier: cls,
		Catalog:        catalog,
		Config:         dep.Config,
		OID:            dep.OID,
		Clock:          dep.Clock,
		Instrument:     dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Config.GetInt64("modules.diagnosis.max_image_bytes"))

	return nil
}
