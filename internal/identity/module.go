package identity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/growguard/internal/identity/inbound"
	"github.com/shandysiswandi/growguard/internal/identity/otpmanager"
	"github.com/shandysiswandi/growguard/internal/identity/outbound/db"
	"github.com/shandysiswandi/growguard/internal/identity/outbound/mq"
	"github.com/shandysiswandi/growguard/internal/identity/outbound/sms"
	"github.com/shandysiswandi/growguard/internal/identity/usecase"
	"github.com/shandysiswandi/growguard/internal/pkg/clock"
	"github.com/shandysiswandi/growguard/internal/pkg/config"
	"github.com/shandysiswandi/growguard/internal/pkg/goroutine"
	"github.com/shandysiswandi/growguard/internal/pkg/hash"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/jwt"
	"github.com/shandysiswandi/growguard/internal/pkg/messaging"
	"github.com/shandysiswandi/growguard/internal/pkg/otp"
	"github.com/shandysiswandi/growguard/internal/pkg/router"
	pkgsms "github.com/shandysiswandi/growguard/internal/pkg/sms"
	"github.com/shandysiswandi/growguard/internal/pkg/throttle"
	"github.com/shandysiswandi/growguard/internal/pkg/uid"
	"github.com/shandysiswandi/growguard/internal/pkg/validator"
)

// Delivery modes for modules.identity.otp.delivery.
const (
	DeliveryDirect = "direct"
	DeliveryQueue  = "queue"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  redis.UniversalClient      `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	SMS        pkgsms.SMS                 `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

// New wires the identity module and starts its sweep job on gm. The job
// stops when ctx is canceled.
func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	length := dep.Config.GetInt("modules.identity.otp.length")
	if length == 0 {
		length = 4
	}
	gen, err := otp.NewNumeric(length)
	if err != nil {
		return err
	}

	gateway, err := newGateway(dep)
	if err != nil {
		return err
	}

	dbIdentity := db.NewDB(dep.DBConn, dep.Instrument)

	manager := otpmanager.New(otpmanager.Dependency{
		Store:      dbIdentity,
		Gateway:    gateway,
		Generator:  gen,
		Hash:       dep.HMAC,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
		Window:     dep.Config.GetSecond("modules.identity.otp.window_seconds"),
	})

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbIdentity,
		OTP:        manager,
		Cooldown:   throttle.NewRedis(dep.CacheConn, "identity:otp:cooldown:"),
		Validator:  dep.Validator,
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	})

	otpLimit := router.RateLimit(
		dep.Config.GetFloat64("modules.identity.otp.rate_limit_per_minute"),
		dep.Config.GetInt("modules.identity.otp.rate_limit_burst"),
	)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, otpLimit)
	inbound.RegisterSweepJob(ctx, dep.Goroutine, manager, dep.Config.GetSecond("modules.identity.otp.sweep_interval_seconds"))

	return nil
}

func newGateway(dep Dependency) (otpmanager.Gateway, error) {
	switch mode := dep.Config.GetString("modules.identity.otp.delivery"); mode {
	case DeliveryQueue:
		return mq.NewMessaging(dep.Messaging, dep.Instrument), nil
	case DeliveryDirect, "":
		var fallback pkgsms.SMS
		if dep.Config.GetBool("sms.console_fallback") {
			fallback = pkgsms.NewConsole()
		}
		return sms.NewGateway(dep.SMS, fallback, sms.Config{
			CountryCode: dep.Config.GetString("sms.country_code"),
			Timeout:     dep.Config.GetSecond("sms.timeout_seconds"),
		}, dep.Instrument), nil
	default:
		return nil, fmt.Errorf("identity: unknown otp delivery mode %q", mode)
	}
}
