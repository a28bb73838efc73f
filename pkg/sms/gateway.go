// Package sms delivers one-time passwords to mobile numbers. The mock
// gateway logs the code instead of sending it, which is how local and staging
// environments run.
package sms

import (
	"context"

	"github.com/rs/zerolog"
)

// Gateway sends an OTP to a mobile number.
type Gateway interface {
	SendOTP(ctx context.Context, mobile, code string) error
}

// MockGateway logs the OTP instead of delivering it.
type MockGateway struct {
	logger zerolog.Logger
}

// NewMockGateway creates a MockGateway.
func NewMockGateway(logger zerolog.Logger) *MockGateway {
	return &MockGateway{logger: logger}
}

// SendOTP logs the code.
func (g *MockGateway) SendOTP(ctx context.Context, mobile, code string) error {
	g.logger.Info().Str("mobile", mobile).Str("otp", code).Msg("mock SMS gateway: OTP issued")
	return nil
}
