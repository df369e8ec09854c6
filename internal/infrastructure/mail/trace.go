package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Hriday2406/NoAI-Backend/internal/api/metrics"
	"github.com/Hriday2406/NoAI-Backend/internal/core/domain"
)

// TraceSender writes OTP notifications to the log instead of delivering
// them. It stands in for the SMTP sender when email credentials are not
// configured, so the full flow stays exercisable against a local process.
type TraceSender struct {
	logger zerolog.Logger
}

func NewTraceSender(logger zerolog.Logger) *TraceSender {
	return &TraceSender{logger: logger}
}

// Send logs the would-be email and reports success.
func (s *TraceSender) Send(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info().
		Str("to", email).
		Str("subject", subject(purpose)).
		Str("otp", code).
		Msg("otp email (trace mode)")

	metrics.EmailsSentTotal.WithLabelValues("trace").Inc()
	return nil
}
