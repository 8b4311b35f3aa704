package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/growguard/internal/diagnosis"
	"github.com/shandysiswandi/growguard/internal/identity"
	"github.com/shandysiswandi/growguard/internal/notification"
	"github.com/shandysiswandi/growguard/internal/rating"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(a.ctx, identity.Dependency{
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			SMS:        a.sms,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			HMAC:       a.hmac,
			Clock:      a.clock,
			Validator:  a.validator,
			JWT:        a.jwt,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			Messaging:  a.messaging,
			SMS:        a.sms,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.diagnosis.enabled") {
		if err := diagnosis.New(diagnosis.Dependency{
			Router:     a.router,
			Storage:    a.storage,
			Config:     a.config,
			Instrument: a.ins,
			OID:        a.oid,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module diagnosis", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.rating.enabled") {
		if err := rating.New(rating.Dependency{
			DBConn:     a.dbConn,
			Router:     a.router,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module rating", "error", err)
			os.Exit(1)
		}
	}
}
