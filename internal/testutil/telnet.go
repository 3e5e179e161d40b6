// Package testutil provides helpers for end-to-end tests against the Telnet
// frontend.
package testutil

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/cory-johannsen/dungeon/internal/frontend/telnet"
)

// DefaultTimeout bounds each read or write made by TelnetClient.
const DefaultTimeout = 5 * time.Second

// TelnetClient is a minimal Telnet client that exposes server output as
// plain text: Telnet commands and ANSI escapes are stripped.
type TelnetClient struct {
	conn net.Conn
	t    testing.TB
	buf  []byte
}

// NewTelnetClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t testing.TB, addr string) *TelnetClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, DefaultTimeout)
	if err != nil {
		t.Fatalf("connecting to %s: %v", addr, err)
	}
	t.Cleanup(func() { conn.Close() })
	return &TelnetClient{conn: conn, t: t}
}

// ReadUntil reads until the plain-text output contains substr and returns
// everything read so far, including the match. Output following the match
// stays buffered for the next call.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the text up to and including substr, or fails on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	tmp := make([]byte, 1024)
	for {
		text := telnet.StripANSI(string(telnet.FilterIAC(c.buf)))
		if i := strings.Index(text, substr); i >= 0 {
			end := i + len(substr)
			c.buf = []byte(text[end:])
			return text[:end]
		}
		n, err := c.conn.Read(tmp)
		c.buf = append(c.buf, tmp[:n]...)
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, text, err)
		}
	}
}

// Send writes a line of text to the server, appending \r\n.
//
// Postcondition: text + \r\n is written to the connection.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(DefaultTimeout))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Command sends text and returns the output up to and including until.
func (c *TelnetClient) Command(text, until string) string {
	c.t.Helper()
	c.Send(text)
	return c.ReadUntil(until, DefaultTimeout)
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
