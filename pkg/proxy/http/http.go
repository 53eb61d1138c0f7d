package http

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/net/proxy"
)

func init() {
	proxy.RegisterDialerType("http", New)
	proxy.RegisterDialerType("https", New)
}

// httpProxy tunnels TCP connections through an HTTP CONNECT proxy.
type httpProxy struct {
	u *url.URL

	forward proxy.Dialer
}

func New(u *url.URL, forward proxy.Dialer) (proxy.Dialer, error) {
	if u == nil {
		return nil, fmt.Errorf("uri is empty")
	}

	if forward == nil {
		forward = proxy.Direct
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported scheme")
	}

	return &httpProxy{u: u, forward: forward}, nil
}

func (s *httpProxy) Dial(network, address string) (net.Conn, error) {
	return s.DialContext(context.Background(), network, address)
}

func (s *httpProxy) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	switch network {
	case "tcp", "tcp4", "tcp6":
	default:
		return nil, fmt.Errorf("unsupport network: %v", network)
	}

	var (
		c   net.Conn
		err error
	)
	if dialer, ok := s.forward.(proxy.ContextDialer); ok {
		c, err = dialer.DialContext(ctx, "tcp", s.u.Host)
	} else {
		c, err = s.forward.Dial("tcp", s.u.Host)
	}
	if err != nil {
		return nil, err
	}

	err = s.connect(c, address)
	if err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (s *httpProxy) connect(c net.Conn, address string) error {
	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: address},
		Host:   address,
		Header: make(http.Header),
	}

	if s.u.User != nil {
		password, _ := s.u.User.Password()
		req.SetBasicAuth(s.u.User.Username(), password)
	}

	err := req.Write(c)
	if err != nil {
		return err
	}

	response, err := http.ReadResponse(bufio.NewReader(c), req)
	if response != nil && response.Body != nil {
		response.Body.Close()
	}

	if err != nil {
		return err
	}

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("proxy response code %d", response.StatusCode)
	}

	return nil
}
