package inbound

import (
	"net/http"
	"strconv"

	"github.com/shandysiswandi/growguard/internal/identity/usecase"
	"github.com/shandysiswandi/growguard/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP sign in and profile handlers.
type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) RegistrationOTP(r *router.Request) (any, error) {
	var req MobileRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.RegistrationOTP(r.Context(), usecase.MobileInput{MobileNumber: req.MobileNumber})
	if err != nil {
		return nil, err
	}

	return newIssueResponse(out), nil
}

func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Name:         req.Name,
		Surname:      req.Surname,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Province:     req.Province,
		District:     req.District,
		Tehsil:       req.Tehsil,
		Village:      req.Village,
		Address:      req.Address,
		OTPCode:      req.OTPCode,
	})
	if err != nil {
		return nil, err
	}

	return AuthResponse{Token: out.Token, User: newUserResponse(out.User), status: http.StatusCreated}, nil
}

func (h *HTTPEndpoint) LoginOTP(r *router.Request) (any, error) {
	var req MobileRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.LoginOTP(r.Context(), usecase.MobileInput{MobileNumber: req.MobileNumber})
	if err != nil {
		return nil, err
	}

	return newIssueResponse(out), nil
}

func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Login(r.Context(), usecase.LoginInput{
		MobileNumber: req.MobileNumber,
		OTPCode:      req.OTPCode,
	})
	if err != nil {
		return nil, err
	}

	return AuthResponse{Token: out.Token, User: newUserResponse(out.User), status: http.StatusOK}, nil
}

// ResendOTP issues a fresh code for a purpose, superseding the previous one.
func (h *HTTPEndpoint) ResendOTP(r *router.Request) (any, error) {
	var req ResendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.ResendOTP(r.Context(), usecase.ResendOTPInput{
		MobileNumber: req.MobileNumber,
		Purpose:      req.Purpose,
	})
	if err != nil {
		return nil, err
	}

	return newIssueResponse(out), nil
}

func (h *HTTPEndpoint) VerifySession(r *router.Request) (any, error) {
	var req VerifySessionRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.VerifySession(r.Context(), usecase.VerifySessionInput{Token: req.Token})
	if err != nil {
		return nil, err
	}

	return VerifySessionResponse{
		SubjectID:    strconv.FormatInt(out.SubjectID, 10),
		MobileNumber: out.MobileNumber,
		ExpiresAt:    out.ExpiresAt,
	}, nil
}

func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	user, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return newUserResponse(*user), nil
}

func (h *HTTPEndpoint) ProfileUpdate(r *router.Request) (any, error) {
	var req ProfileUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	user, err := h.uc.ProfileUpdate(r.Context(), usecase.ProfileUpdateInput{
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Address:      req.Address,
		OTPCode:      req.OTPCode,
	})
	if err != nil {
		return nil, err
	}

	return newUserResponse(*user), nil
}

func (h *HTTPEndpoint) MobileChangeOTP(r *router.Request) (any, error) {
	var req MobileRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.MobileChangeOTP(r.Context(), usecase.MobileInput{MobileNumber: req.MobileNumber})
	if err != nil {
		return nil, err
	}

	return newIssueResponse(out), nil
}
