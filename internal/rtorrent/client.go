// Package rtorrent talks to an rtorrent instance through the ruTorrent
// httprpc XML-RPC mount.
package rtorrent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"
)

// Sentinel errors for the rtorrent package.
var (
	// ErrAuth is returned when the RPC mount rejects the credentials.
	// Fatal for the torrent phase, never retried.
	ErrAuth = errors.New("rtorrent authentication rejected")

	// ErrUnavailable is returned when the RPC endpoint cannot be reached.
	ErrUnavailable = errors.New("rtorrent unavailable")
)

// Torrent is the client's view of one download.
type Torrent struct {
	Hash           string
	Name           string
	SizeBytes      int64
	CompletedBytes int64
	Ratio          float64 // wire value is an integer scaled by 1000
	IsActive       bool
	IsComplete     bool
	Directory      string
	Label          string
	FinishedAt     time.Time // zero when the torrent never finished
	StartedAt      time.Time
}

// Stats holds the global throughput counters.
type Stats struct {
	DownRate  int64
	UpRate    int64
	DownTotal int64
	UpTotal   int64
}

// Client wraps the XML-RPC endpoint.
type Client struct {
	rpc *xmlrpc.Client
}

// NewClient connects to the XML-RPC mount (e.g.
// https://host/rutorrent/plugins/httprpc/action.php) with basic auth.
func NewClient(endpoint, username, password string) (*Client, error) {
	transport := &authTransport{
		username: username,
		password: password,
		base:     http.DefaultTransport,
	}
	rpc, err := xmlrpc.NewClient(endpoint, transport)
	if err != nil {
		return nil, fmt.Errorf("create rpc client: %w", err)
	}
	return &Client{rpc: rpc}, nil
}

// Check verifies connectivity and credentials.
func (c *Client) Check(ctx context.Context) error {
	var methods []string
	if err := c.call(ctx, "system.listMethods", nil, &methods); err != nil {
		return err
	}
	return nil
}

// Seeding returns the hashes in the seeding view, uppercase hex.
func (c *Client) Seeding(ctx context.Context) ([]string, error) {
	var hashes []string
	// rtorrent requires an empty string as the first argument.
	if err := c.call(ctx, "download_list", []any{"", "seeding"}, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// Torrent fetches the detail fields for one hash.
func (c *Client) Torrent(ctx context.Context, hash string) (*Torrent, error) {
	t := &Torrent{Hash: hash}

	if err := c.call(ctx, "d.name", []any{hash}, &t.Name); err != nil {
		return nil, err
	}
	if err := c.call(ctx, "d.size_bytes", []any{hash}, &t.SizeBytes); err != nil {
		return nil, err
	}
	if err := c.call(ctx, "d.completed_bytes", []any{hash}, &t.CompletedBytes); err != nil {
		return nil, err
	}

	var ratioRaw int64
	if err := c.call(ctx, "d.ratio", []any{hash}, &ratioRaw); err != nil {
		return nil, err
	}
	t.Ratio = float64(ratioRaw) / 1000.0

	var active, complete int64
	if err := c.call(ctx, "d.is_active", []any{hash}, &active); err != nil {
		return nil, err
	}
	if err := c.call(ctx, "d.complete", []any{hash}, &complete); err != nil {
		return nil, err
	}
	t.IsActive = active != 0
	t.IsComplete = complete != 0

	if err := c.call(ctx, "d.directory", []any{hash}, &t.Directory); err != nil {
		return nil, err
	}

	var finished, started int64
	if err := c.call(ctx, "d.timestamp.finished", []any{hash}, &finished); err != nil {
		return nil, err
	}
	if err := c.call(ctx, "d.timestamp.started", []any{hash}, &started); err != nil {
		return nil, err
	}
	if finished > 0 {
		t.FinishedAt = time.Unix(finished, 0)
	}
	if started > 0 {
		t.StartedAt = time.Unix(started, 0)
	}

	// Label lives in custom1 and may not be set.
	var label string
	if err := c.call(ctx, "d.custom1", []any{hash}, &label); err == nil {
		t.Label = label
	}

	return t, nil
}

// Delete removes a torrent; with withFiles its payload is removed too.
func (c *Client) Delete(ctx context.Context, hash string, withFiles bool) error {
	method := "d.erase"
	if withFiles {
		method = "d.delete_tied"
	}
	var reply int64
	return c.call(ctx, method, []any{hash}, &reply)
}

// GlobalStats returns the global throughput counters.
func (c *Client) GlobalStats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	for method, dst := range map[string]*int64{
		"throttle.global_down.rate":  &s.DownRate,
		"throttle.global_up.rate":    &s.UpRate,
		"throttle.global_down.total": &s.DownTotal,
		"throttle.global_up.total":   &s.UpTotal,
	} {
		if err := c.call(ctx, method, nil, dst); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (c *Client) call(ctx context.Context, method string, args any, reply any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.rpc.Call(method, args, reply); err != nil {
		return mapErr(method, err)
	}
	return nil
}

func mapErr(method string, err error) error {
	if errors.Is(err, errUnauthorized) || strings.Contains(err.Error(), "401") || strings.Contains(err.Error(), "403") {
		return fmt.Errorf("%w: %s", ErrAuth, method)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, method, err)
}

var errUnauthorized = errors.New("unauthorized")

// authTransport injects basic auth into every RPC request and surfaces
// auth rejections as a distinct error.
type authTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		_ = resp.Body.Close()
		return nil, errUnauthorized
	}
	return resp, nil
}
