package backend

import (
	"context"
	"net"
	"time"
)

// DialCheck reports online when a TCP connection to addr succeeds within
// timeout.
func DialCheck(addr string, timeout time.Duration) ConnectivityCheck {
	return func(ctx context.Context) bool {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}
