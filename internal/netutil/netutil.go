// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"github.com/staranto/stkit/internal/memo"
)

const (
	// CheckIPURL echoes the caller's external IPv4 address as plain text.
	CheckIPURL = "http://checkip.amazonaws.com"

	// HelpDoc is where users are pointed when detection fails.
	HelpDoc = "https://streamlit.io/secret/docs/"

	// DefaultTimeout bounds the external IP request.
	DefaultTimeout = 5 * time.Second

	// LoopbackIP is reported when no local interface can be determined.
	LoopbackIP = "127.0.0.1"

	// probeAddr is never sent any data. Connecting a UDP socket to it only
	// makes the OS choose the outbound interface.
	probeAddr = "8.8.8.8:1"
)

// BlockingGet performs a single GET and returns the response body. Any
// failure, including a non-2xx status, is reported as false. There are no
// retries.
func BlockingGet(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, bool) {
	body, err := get(ctx, client, url, timeout)
	if err != nil {
		log.WithError(err).Debugf("GET %s failed", url)
		return nil, false
	}
	return body, true
}

func get(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		client = cleanhttp.DefaultClient()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var doc bytes.Buffer
	if _, err := io.Copy(&doc, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return doc.Bytes(), nil
}

// DialFunc opens a connection. It matches net.Dial.
type DialFunc func(network, address string) (net.Conn, error)

// Resolver discovers and caches the external and internal IP of this
// machine. Each address is looked up at most once successfully for the
// lifetime of the Resolver. The zero value is usable and behaves like
// NewResolver().
type Resolver struct {
	// URL of the echo service. Defaults to CheckIPURL.
	URL string
	// JSONPath, when set, extracts the address from a JSON response with
	// gjson syntax, e.g. "ip" for {"ip":"..."}.
	JSONPath string
	// Timeout for the echo request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Client defaults to a cleanhttp client.
	Client *http.Client
	// Dial defaults to net.Dial.
	Dial DialFunc

	external memo.Lazy[string]
	internal memo.Value[string]
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithURL sets the echo service URL.
func WithURL(url string) Option {
	return func(r *Resolver) { r.URL = url }
}

// WithJSONPath makes the resolver read the address from a JSON document.
func WithJSONPath(path string) Option {
	return func(r *Resolver) { r.JSONPath = path }
}

// WithTimeout sets the echo request timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.Timeout = d }
}

// WithClient injects the HTTP client.
func WithClient(c *http.Client) Option {
	return func(r *Resolver) { r.Client = c }
}

// WithDialer injects the dialer used for the internal IP probe.
func WithDialer(d DialFunc) Option {
	return func(r *Resolver) { r.Dial = d }
}

// NewResolver returns a Resolver with the given options applied over the
// defaults.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		URL:     CheckIPURL,
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExternalIP returns the external IP address of this machine, or "" when it
// could not be determined. Failures are logged and not cached, so a later
// call tries again. Once an address is known it is returned without any
// network access.
//
// Concurrent callers share one request. It keeps ctx values but not its
// cancellation, so it is bounded only by the resolver's Timeout.
func (r *Resolver) ExternalIP(ctx context.Context) string {
	shared := context.WithoutCancel(ctx)
	ip, err := r.external.Get(func() (string, error) {
		return r.fetchExternal(shared)
	})
	if err != nil {
		log.WithError(err).Warnf(
			"Did not auto detect external IP. Please go to %s for debugging hints.", HelpDoc)
		return ""
	}
	return ip
}

func (r *Resolver) fetchExternal(ctx context.Context) (string, error) {
	url := r.URL
	if url == "" {
		url = CheckIPURL
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	body, err := get(ctx, r.Client, url, timeout)
	if err != nil {
		return "", err
	}

	var ip string
	if r.JSONPath != "" {
		res := gjson.GetBytes(body, r.JSONPath)
		if !res.Exists() {
			return "", fmt.Errorf("%s not found in response", r.JSONPath)
		}
		ip = strings.TrimSpace(res.String())
	} else {
		ip = strings.TrimSpace(string(body))
	}

	if ip == "" {
		return "", errors.New("empty response")
	}
	return ip, nil
}

// InternalIP returns the IPv4 address of the interface this machine would use
// for outbound traffic, or LoopbackIP when there is none. The result is
// computed once.
func (r *Resolver) InternalIP() string {
	return r.internal.Get(r.probeInternal)
}

func (r *Resolver) probeInternal() string {
	dial := r.Dial
	if dial == nil {
		dial = net.Dial
	}

	conn, err := dial("udp4", probeAddr)
	if err != nil {
		log.WithError(err).Debug("internal IP probe failed")
		return LoopbackIP
	}
	defer conn.Close()

	if ip := ipv4Of(conn.LocalAddr()); ip != "" {
		return ip
	}
	return LoopbackIP
}

func ipv4Of(addr net.Addr) string {
	var ip net.IP
	switch a := addr.(type) {
	case *net.UDPAddr:
		ip = a.IP
	case *net.TCPAddr:
		ip = a.IP
	case nil:
		return ""
	default:
		host, _, err := net.SplitHostPort(a.String())
		if err != nil {
			host = a.String()
		}
		ip = net.ParseIP(host)
	}

	if v4 := ip.To4(); v4 != nil && !v4.IsUnspecified() {
		return v4.String()
	}
	return ""
}

// Default is the process wide resolver used by the package level helpers.
var Default = NewResolver()

// ExternalIP is Default.ExternalIP.
func ExternalIP(ctx context.Context) string {
	return Default.ExternalIP(ctx)
}

// InternalIP is Default.InternalIP.
func InternalIP() string {
	return Default.InternalIP()
}
