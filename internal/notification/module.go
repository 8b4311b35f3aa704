package notification

import (
	"context"

	"github.com/shandysiswandi/growguard/internal/notification/inbound"
	"github.com/shandysiswandi/growguard/internal/notification/outbound/sms"
	"github.com/shandysiswandi/growguard/internal/notification/usecase"
	"github.com/shandysiswandi/growguard/internal/pkg/clock"
	"github.com/shandysiswandi/growguard/internal/pkg/config"
	"github.com/shandysiswandi/growguard/internal/pkg/goroutine"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/messaging"
	pkgsms "github.com/shandysiswandi/growguard/internal/pkg/sms"
	"github.com/shandysiswandi/growguard/internal/pkg/uid"
	"github.com/shandysiswandi/growguard/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	Messaging  messaging.Messaging
	SMS        pkgsms.SMS
	Config     config.Config
	Instrument instrument.Instrumentation
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
}

func New(dep Dependency) error {
	uc := usecase.NewNotification(usecase.Dependency{
		RepoSMS:    sms.New(dep.SMS, dep.Instrument),
		Config:     dep.Config,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
