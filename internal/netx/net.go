// Package netx classifies transport failures returned by net/http.
package netx

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// Reason returns a short label for a transport error: "canceled", "timeout",
// "dns", "connection refused", "connection reset" or "network".
func Reason(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused"
	case errors.Is(err, syscall.ECONNRESET):
		return "connection reset"
	}
	return "network"
}

// Retryable reports whether repeating the request may succeed. Caller
// cancellation is final; everything else is treated as transient.
func Retryable(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}
