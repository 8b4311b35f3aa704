package strcase

import "testing"

func TestToLowerSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "MobileNumber", want: "mobile_number"},
		{in: "OTPCode", want: "otp_code"},
		{in: "userID", want: "user_id"},
		{in: "Address2Line", want: "address2_line"},
		{in: "name", want: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ToLowerSnake(tt.in); got != tt.want {
				t.Fatalf("ToLowerSnake(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
