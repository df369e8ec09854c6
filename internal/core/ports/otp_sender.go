package ports

import (
	"context"

	"github.com/Hriday2406/NoAI-Backend/internal/core/domain"
)

// OTPSender delivers a one-time password to a user through whichever channel
// the process was configured with at startup (live SMTP or a local trace
// sink). A non-nil error means the code never reached the user and the
// enclosing request must fail.
type OTPSender interface {
	Send(ctx context.Context, email, code string, purpose domain.OTPPurpose) error
}
