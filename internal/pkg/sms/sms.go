// Package sms delivers text messages to mobile numbers.
//
// Drivers: "twilio" sends through the Twilio REST API and "console" only
// writes the message to the log, for local development.
package sms

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNoRecipient is returned when Message.To is empty.
	ErrNoRecipient = errors.New("sms: recipient is required")
	// ErrNotConfigured is returned when a driver lacks credentials.
	ErrNotConfigured = errors.New("sms: provider not configured")
	// ErrUnknownDriver is returned by NewFromDriver for an unsupported driver.
	ErrUnknownDriver = errors.New("sms: unknown driver")
)

// Message is a single text message. To must be E.164 (see NormalizeE164).
type Message struct {
	To   string
	Body string
}

// Receipt identifies an accepted message at the provider.
type Receipt struct {
	ID       string
	Provider string
}

// SMS sends text messages.
type SMS interface {
	io.Closer
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// Driver names accepted by NewFromDriver.
const (
	DriverTwilio  = "twilio"
	DriverConsole = "console"
)

// Options selects and configures a driver.
type Options struct {
	Driver string
	Twilio TwilioConfig
}

// NewFromDriver builds the SMS implementation named by opt.Driver.
func NewFromDriver(opt Options) (SMS, error) {
	switch opt.Driver {
	case DriverTwilio:
		return NewTwilio(opt.Twilio)
	case DriverConsole, "":
		return NewConsole(), nil
	default:
		return nil, ErrUnknownDriver
	}
}
