package event

import "testing"

func TestOTPDeliveryMessage_Text(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{seconds: 180, want: "Your GrowGuardians OTP is: 0427. Valid for 3 minutes. Do not share this code."},
		{seconds: 90, want: "Your GrowGuardians OTP is: 0427. Valid for 2 minutes. Do not share this code."},
		{seconds: 0, want: "Your GrowGuardians OTP is: 0427. Valid for 1 minutes. Do not share this code."},
	}

	for _, tt := range tests {
		msg := OTPDeliveryMessage{Code: "0427", ValidForSeconds: tt.seconds}
		if got := msg.Text(); got != tt.want {
			t.Fatalf("Text(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
