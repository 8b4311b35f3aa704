package entity

import "time"

type OTPRecord struct {
	ID          int64
	PhoneNumber string
	CodeHash    string
	Purpose     Purpose
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Used        bool
	UsedAt      *time.Time
}

// OTPDelivery is what the notification gateway needs to send a code.
type OTPDelivery struct {
	PhoneNumber string
	Code        string
	Purpose     Purpose
	ExpiresAt   time.Time
	ExpiresIn   time.Duration
}

// DeliveryOutcome never carries an error: a failed delivery is reported, not raised.
type DeliveryOutcome struct {
	Delivered bool
	Detail    string
}

type IssueResult struct {
	Code           string
	ExpiresIn      time.Duration
	ExpiresAt      time.Time
	Delivered      bool
	DeliveryDetail string
}

type VerifyResult struct {
	OK     bool
	Reason VerifyReason
	Record *OTPRecord
}
