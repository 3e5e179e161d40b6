package telnet

import (
	"bufio"
	"bytes"
	"net"
	"strings"
	"sync"
	"time"
)

// Telnet command and option bytes (RFC 854, RFC 858).
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	GA   byte = 249
	NOP  byte = 241
	SE   byte = 240

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
)

type iacState uint8

const (
	stData iacState = iota
	stCommand
	stOption
	stSub
	stSubIAC
)

// iacFilter strips Telnet command sequences from a byte stream one byte at
// a time, so sequences split across reads are handled.
type iacFilter struct {
	state iacState
}

// feed consumes b and reports the data byte to emit, if any.
func (f *iacFilter) feed(b byte) (byte, bool) {
	switch f.state {
	case stCommand:
		switch b {
		case WILL, WONT, DO, DONT:
			f.state = stOption
		case SB:
			f.state = stSub
		case IAC:
			f.state = stData
			return IAC, true
		default:
			f.state = stData
		}
	case stOption:
		f.state = stData
	case stSub:
		if b == IAC {
			f.state = stSubIAC
		}
	case stSubIAC:
		if b == SE {
			f.state = stData
		} else {
			f.state = stSub
		}
	default:
		if b == IAC {
			f.state = stCommand
			return 0, false
		}
		return b, true
	}
	return 0, false
}

// FilterIAC removes Telnet command sequences from input. An escaped
// IAC IAC pair yields a single 0xFF byte.
//
// Postcondition: len(result) <= len(input).
func FilterIAC(input []byte) []byte {
	var f iacFilter
	out := make([]byte, 0, len(input))
	for _, b := range input {
		if c, ok := f.feed(b); ok {
			out = append(out, c)
		}
	}
	return out
}

// Conn is a Telnet client connection offering line input and framed output.
// Writes are serialised; reads are expected from a single goroutine.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	filter iacFilter
	wmu    sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps raw. Zero timeouts disable the corresponding deadline.
//
// Precondition: raw must be an open connection.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate announces that the server suppresses go-ahead.
func (c *Conn) Negotiate() error {
	return c.Write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads one line of input without its terminator. Telnet commands
// and control characters other than tab are dropped; CR, LF and CRLF all
// end a line.
//
// Postcondition: Returns the line, or the partial line and an error
// (io.EOF on disconnect, a timeout error after readTimeout of silence).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		raw, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}
		b, ok := c.filter.feed(raw)
		if !ok {
			continue
		}
		switch {
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			if next, err := c.reader.Peek(1); err == nil && (next[0] == '\n' || next[0] == 0) {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b < 32 && b != '\t':
			continue
		}
		line.WriteByte(b)
	}
}

// Write sends data verbatim.
func (c *Conn) Write(data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(data)
	return err
}

// WriteLine sends text followed by CRLF.
func (c *Conn) WriteLine(text string) error {
	return c.Write([]byte(text + "\r\n"))
}

// WriteLines sends lines as a single write, each terminated by CRLF, so a
// rendered frame is never interleaved with other output.
func (c *Conn) WriteLines(lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\r\n")
	}
	return c.Write([]byte(b.String()))
}

// WritePrompt sends prompt without a line terminator.
func (c *Conn) WritePrompt(prompt string) error {
	return c.Write([]byte(prompt))
}

// Close closes the underlying connection. Blocked reads return an error.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
