// pkg/utils/transport.go
package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	utls "github.com/refraction-networking/utls"
	proxy "golang.org/x/net/proxy"
)

// TransportOptions configures the outbound transport to the forum backend.
type TransportOptions struct {
	// ProxyURL routes traffic through an http, https or socks5 proxy.
	ProxyURL string
	// TLSProfile selects the ClientHello to present: go, chrome, firefox,
	// safari or edge. "go" (or empty) keeps crypto/tls.
	TLSProfile string
}

var clientHelloIDs = map[string]utls.ClientHelloID{
	"chrome":  utls.HelloChrome_Auto,
	"firefox": utls.HelloFirefox_Auto,
	"safari":  utls.HelloSafari_Auto,
	"edge":    utls.HelloEdge_Auto,
}

// ClientHelloFor returns the uTLS ClientHello for a profile name. The second
// result is false for "go" and unknown names.
func ClientHelloFor(profile string) (utls.ClientHelloID, bool) {
	id, ok := clientHelloIDs[strings.ToLower(profile)]
	return id, ok
}

// NewTransport builds an http.RoundTripper honoring the proxy and TLS options.
func NewTransport(opts TransportOptions) (http.RoundTripper, error) {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	var proxyURL *url.URL
	if opts.ProxyURL != "" {
		parsed, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proxy URL %s: %w", MaskProxyURL(opts.ProxyURL), err)
		}
		proxyURL = parsed
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	baseDial := dialer.DialContext

	if proxyURL != nil {
		switch proxyURL.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(proxyURL)
		case "socks5":
			socksDial, err := socks5DialContext(proxyURL, dialer)
			if err != nil {
				return nil, err
			}
			transport.Proxy = nil
			transport.DialContext = socksDial
			baseDial = socksDial
		default:
			return nil, fmt.Errorf("unsupported proxy scheme: %s", proxyURL.Scheme)
		}
	}

	if helloID, ok := ClientHelloFor(opts.TLSProfile); ok {
		// An HTTP CONNECT proxy cannot be combined with a custom TLS dialer
		// through http.Transport, so uTLS is only applied to direct and socks5 routes.
		if proxyURL != nil && proxyURL.Scheme != "socks5" {
			return nil, fmt.Errorf("tls profile %q requires a direct or socks5 connection", opts.TLSProfile)
		}
		// Environment proxies would tunnel through crypto/tls and bypass the profile.
		transport.Proxy = nil
		fd := &FingerprintingDialer{dial: baseDial, clientHelloID: helloID}
		transport.DialTLSContext = fd.DialTLSContext
	} else {
		transport.ForceAttemptHTTP2 = true
	}

	return transport, nil
}

func socks5DialContext(proxyURL *url.URL, forward *net.Dialer) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	var auth *proxy.Auth
	if proxyURL.User != nil {
		auth = &proxy.Auth{User: proxyURL.User.Username()}
		if password, ok := proxyURL.User.Password(); ok {
			auth.Password = password
		}
	}

	d, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, forward)
	if err != nil {
		return nil, fmt.Errorf("create SOCKS5 dialer: %w", err)
	}

	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		connCh := make(chan net.Conn, 1)
		errCh := make(chan error, 1)

		go func() {
			conn, err := d.Dial(network, addr)
			if err != nil {
				errCh <- err
				return
			}
			connCh <- conn
		}()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case conn := <-connCh:
			return conn, nil
		case err := <-errCh:
			return nil, fmt.Errorf("dial via SOCKS5 proxy: %w", err)
		}
	}, nil
}

// FingerprintingDialer performs the TLS handshake with a uTLS ClientHello.
type FingerprintingDialer struct {
	dial          func(ctx context.Context, network, addr string) (net.Conn, error)
	clientHelloID utls.ClientHelloID
}

func (d *FingerprintingDialer) DialTLSContext(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := d.dial(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	spec, err := utls.UTLSIdToSpec(d.clientHelloID)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("client hello spec: %w", err)
	}
	// http.Transport cannot speak h2 over a non crypto/tls conn.
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
		}
	}

	uconn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloCustom)
	if err := uconn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply client hello: %w", err)
	}
	if err := uconn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("uTLS handshake: %w", err)
	}

	return uconn, nil
}

// MaskProxyURL hides the password of a proxy URL for logging.
func MaskProxyURL(proxyURL string) string {
	if !strings.Contains(proxyURL, "@") {
		return proxyURL
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return "[masked]"
	}

	if parsedURL.User != nil {
		username := parsedURL.User.Username()
		return strings.Replace(proxyURL, parsedURL.User.String(), username+":****", 1)
	}

	return proxyURL
}
