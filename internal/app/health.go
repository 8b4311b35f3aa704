package app

import (
	"context"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
	"github.com/shandysiswandi/growguard/internal/pkg/router"
)

type healthResponse struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func (healthResponse) Message() string { return "service is healthy" }

func (a *App) health(r *router.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.dbConn.Ping(ctx); err != nil {
		return nil, goerror.NewServer(err)
	}
	if err := a.cacheConn.Ping(ctx).Err(); err != nil {
		return nil, goerror.NewServer(err)
	}

	return healthResponse{Database: "up", Redis: "up"}, nil
}
