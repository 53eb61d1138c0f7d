package proxy

import (
	"context"
	"errors"
	"net"
	"net/url"

	_ "Townhall/pkg/proxy/http"

	"golang.org/x/net/proxy"
)

// dialer is set once at start-up, before any database connection is opened.
var dialer proxy.Dialer = proxy.Direct

func Register(u *url.URL) error {
	if u == nil {
		return errors.New("no proxy can be used")
	}

	d, err := proxy.FromURL(u, proxy.Direct)
	if err != nil {
		return err
	}

	dialer = d
	return nil
}

func isLocal(network string) bool {
	switch network {
	case "unix", "unixgram", "unixpacket":
		return true
	default:
		return false
	}
}

func Dial(network, address string) (net.Conn, error) {
	if isLocal(network) {
		return net.Dial(network, address)
	}

	return dialer.Dial(network, address)
}

func DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if isLocal(network) {
		var d net.Dialer
		return d.DialContext(ctx, network, address)
	}

	if d, ok := dialer.(proxy.ContextDialer); ok {
		return d.DialContext(ctx, network, address)
	}

	return Dial(network, address)
}
