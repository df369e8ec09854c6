// Package metrics defines and registers all custom Prometheus metrics for the
// OTP authentication API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// OTPIssuedTotal counts one-time passwords issued and persisted.
// Label:
//   - purpose: "verification" (registration) or "login"
var OTPIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of one-time passwords issued.",
	},
	[]string{"purpose"},
)

// OTPVerificationsTotal counts verification attempts by outcome.
// Labels:
//   - purpose: "verification" or "login"
//   - result: "success", "missing", "expired", or "mismatch"
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of OTP verification attempts, by outcome.",
	},
	[]string{"purpose", "result"},
)

// EmailsSentTotal counts OTP notifications handed to the delivery channel.
// Label:
//   - mode: "smtp" (live delivery) or "trace" (local sink)
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of OTP emails dispatched, by delivery mode.",
	},
	[]string{"mode"},
)

// EmailErrorsTotal counts delivery failures surfaced by the live transport.
var EmailErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_errors_total",
		Help:      "Total number of OTP email deliveries that failed.",
	},
)
