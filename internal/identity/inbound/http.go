package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/identity/usecase"
	"github.com/shandysiswandi/growguard/internal/pkg/router"
)

type uc interface {
	RegistrationOTP(ctx context.Context, in usecase.MobileInput) (*usecase.IssueOutput, error)
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthOutput, error)

	LoginOTP(ctx context.Context, in usecase.MobileInput) (*usecase.IssueOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.AuthOutput, error)

	ResendOTP(ctx context.Context, in usecase.ResendOTPInput) (*usecase.IssueOutput, error)
	VerifySession(ctx context.Context, in usecase.VerifySessionInput) (*usecase.SessionOutput, error)

	Profile(ctx context.Context) (*entity.User, error)
	ProfileUpdate(ctx context.Context, in usecase.ProfileUpdateInput) (*entity.User, error)
	MobileChangeOTP(ctx context.Context, in usecase.MobileInput) (*usecase.IssueOutput, error)
}

// RegisterHTTPEndpoint mounts the identity routes. otpLimit guards every
// route that sends a code.
func RegisterHTTPEndpoint(r *router.Router, uc uc, otpLimit router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	for _, path := range []string{
		"/api/v1/identity/register/otp",
		"/api/v1/identity/register",
		"/api/v1/identity/login/otp",
		"/api/v1/identity/login",
		"/api/v1/identity/otp/resend",
		"/api/v1/identity/session/verify",
	} {
		r.Public(http.MethodPost, path)
	}

	// Registration & Login
	r.POST("/api/v1/identity/register/otp", end.RegistrationOTP, otpLimit)
	r.POST("/api/v1/identity/register", end.Register)
	r.POST("/api/v1/identity/login/otp", end.LoginOTP, otpLimit)
	r.POST("/api/v1/identity/login", end.Login)
	r.POST("/api/v1/identity/otp/resend", end.ResendOTP, otpLimit)
	r.POST("/api/v1/identity/session/verify", end.VerifySession)

	// Profile (need authenticated)
	r.GET("/api/v1/identity/profile", end.Profile)
	r.PUT("/api/v1/identity/profile", end.ProfileUpdate)
	r.POST("/api/v1/identity/profile/mobile/otp", end.MobileChangeOTP, otpLimit)
}
