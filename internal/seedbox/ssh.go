// Package seedbox is the SSH transport for the remote download tier.
//
// Every operation is fail-safe: a connection or command failure surfaces as
// an error, never as an empty listing, so callers cannot mistake "could not
// look" for "nothing there".
package seedbox

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// Sentinel errors for the seedbox package.
var (
	// ErrAuth is returned when the SSH handshake rejects the credentials.
	ErrAuth = errors.New("seedbox authentication failed")

	// ErrUnavailable is returned when the host cannot be reached or a
	// command cannot be executed.
	ErrUnavailable = errors.New("seedbox unavailable")
)

const connectTimeout = 30 * time.Second

// runner executes a shell command on the remote host.
type runner interface {
	run(cmd string) (stdout, stderr string, exitCode int, err error)
}

// Client holds one SSH connection to the seedbox.
type Client struct {
	conn   *ssh.Client
	runner runner
}

// Dial connects with password authentication.
func Dial(host string, port int, username, password string) (*Client, error) {
	cfg := &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // seedboxes rotate hosts; no stable host key
		Timeout:         connectTimeout,
	}

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		if isAuthErr(err) {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Client{conn: conn, runner: &sshRunner{conn: conn}}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func isAuthErr(err error) bool {
	var authErr *ssh.ServerAuthError
	if errors.As(err, &authErr) {
		return true
	}
	return bytes.Contains([]byte(err.Error()), []byte("unable to authenticate"))
}

type sshRunner struct {
	conn *ssh.Client
}

func (r *sshRunner) run(cmd string) (string, string, int, error) {
	session, err := r.conn.NewSession()
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: open session: %v", ErrUnavailable, err)
	}
	defer func() { _ = session.Close() }()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	err = session.Run(cmd)
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), exitErr.ExitStatus(), nil
		}
		return "", "", 0, fmt.Errorf("%w: run command: %v", ErrUnavailable, err)
	}
	return stdout.String(), stderr.String(), 0, nil
}
