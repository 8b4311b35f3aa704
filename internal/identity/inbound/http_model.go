package inbound

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/identity/usecase"
)

type MobileRequest struct {
	MobileNumber string `json:"mobile_number"`
}

type ResendOTPRequest struct {
	MobileNumber string `json:"mobile_number"`
	Purpose      string `json:"purpose"`
}

type IssueResponse struct {
	ExpiresIn int64  `json:"expires_in"`
	SMSSent   bool   `json:"sms_sent"`
	OTP       string `json:"otp,omitempty"`
}

func (IssueResponse) Message() string {
	return "OTP has been sent"
}

func newIssueResponse(out *usecase.IssueOutput) IssueResponse {
	return IssueResponse{ExpiresIn: out.ExpiresIn, SMSSent: out.SMSSent, OTP: out.Code}
}

type RegisterRequest struct {
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	MobileNumber string `json:"mobile_number"`
	Email        string `json:"email"`
	Province     string `json:"province"`
	District     string `json:"district"`
	Tehsil       string `json:"tehsil"`
	Village      string `json:"village"`
	Address      string `json:"address"`
	OTPCode      string `json:"otp_code"`
}

type LoginRequest struct {
	MobileNumber string `json:"mobile_number"`
	OTPCode      string `json:"otp_code"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`

	status int
}

func (r AuthResponse) StatusCode() int {
	return r.status
}

func (r AuthResponse) Message() string {
	if r.status == http.StatusCreated {
		return "Registration successful"
	}
	return "Login successful"
}

type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	MobileNumber string    `json:"mobile_number"`
	Email        string    `json:"email,omitempty"`
	Province     string    `json:"province,omitempty"`
	District     string    `json:"district,omitempty"`
	Tehsil       string    `json:"tehsil"`
	Village      string    `json:"village,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newUserResponse(u entity.User) UserResponse {
	return UserResponse{
		ID:           strconv.FormatInt(u.ID, 10),
		Name:         u.Name,
		Surname:      u.Surname,
		MobileNumber: u.MobileNumber,
		Email:        u.Email,
		Province:     u.Province,
		District:     u.District,
		Tehsil:       u.Tehsil,
		Village:      u.Village,
		Address:      u.Address,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type VerifySessionRequest struct {
	Token string `json:"token"`
}

type VerifySessionResponse struct {
	SubjectID    string    `json:"subject_id"`
	MobileNumber string    `json:"mobile_number"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type ProfileUpdateRequest struct {
	MobileNumber *string `json:"mobile_number"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	OTPCode      string  `json:"otp_code"`
}
