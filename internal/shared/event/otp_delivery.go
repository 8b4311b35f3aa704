package event

import (
	"fmt"
	"time"
)

const OTPDeliveryDestination string = "otp_delivery"
const OTPDeliveryConsumerNotification string = "otp_delivery_notification"

// HeaderCorrelationID carries the request correlation id across the broker.
const HeaderCorrelationID string = "cID"

type OTPDeliveryMessage struct {
	MobileNumber    string    `json:"mobile_number"`
	Code            string    `json:"code"`
	Purpose         string    `json:"purpose"`
	ExpiresAt       time.Time `json:"expires_at"`
	ValidForSeconds int64     `json:"valid_for_seconds"`
}

// Text is the SMS body sent to the user.
func (m OTPDeliveryMessage) Text() string {
	minutes := (m.ValidForSeconds + 59) / 60
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Your GrowGuardians OTP is: %s. Valid for %d minutes. Do not share this code.", m.Code, minutes)
}
