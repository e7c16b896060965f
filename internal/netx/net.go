// Package netx contains listener and HTTP client helpers that make the
// service reachable either on a TCP address or on a local unix socket.
package netx

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"
)

// IsUnixAddress reports whether address names a unix socket: either an
// absolute filesystem path or an explicit "unix:" prefix.
func IsUnixAddress(address string) bool {
	return strings.HasPrefix(address, "unix:") || strings.HasPrefix(address, "/")
}

func unixPath(address string) string {
	return strings.TrimPrefix(address, "unix:")
}

// Listen binds address. TCP addresses ("host:port", ":8080") bind as usual;
// unix socket paths get a stale socket file from a previous run removed
// before binding.
func Listen(address string) (net.Listener, error) {
	if !IsUnixAddress(address) {
		return net.Listen("tcp", address)
	}

	path := unixPath(address)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return net.Listen("unix", path)
}

// NewHTTPClient returns an HTTP client and base URL for address. For unix
// socket addresses the client dials the socket regardless of the host part
// of the URL.
func NewHTTPClient(address string) (*http.Client, string) {
	if !IsUnixAddress(address) {
		return &http.Client{}, "http://" + address
	}

	path := unixPath(address)
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", path)
			},
		},
	}
	return client, "http://unix"
}
