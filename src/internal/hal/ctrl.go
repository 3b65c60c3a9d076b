package hal

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/maksimkurb/keen-softap/src/internal/address"
)

const ctrlBufferSize = 4096

var ctrlSeq atomic.Uint64

// ctrlConn is a connection to a hostapd control socket.
type ctrlConn struct {
	conn  *net.UnixConn
	local string
}

func dialCtrl(socketPath, localDir string) (*ctrlConn, error) {
	local := filepath.Join(localDir, fmt.Sprintf("ctrl-%d-%d", os.Getpid(), ctrlSeq.Add(1)))
	_ = os.Remove(local)

	conn, err := net.DialUnix("unixgram",
		&net.UnixAddr{Name: local, Net: "unixgram"},
		&net.UnixAddr{Name: socketPath, Net: "unixgram"})
	if err != nil {
		return nil, fmt.Errorf("connect to hostapd: %w", err)
	}
	return &ctrlConn{conn: conn, local: local}, nil
}

// Request sends cmd and returns the reply, skipping unsolicited event
// messages.
func (c *ctrlConn) Request(cmd string, timeout time.Duration) (string, error) {
	if err := c.conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	if _, err := c.conn.Write([]byte(cmd)); err != nil {
		return "", fmt.Errorf("send %s: %w", cmd, err)
	}

	buf := make([]byte, ctrlBufferSize)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			return "", fmt.Errorf("read reply to %s: %w", cmd, err)
		}
		reply := string(buf[:n])
		if strings.HasPrefix(reply, "<") {
			continue
		}
		return strings.TrimRight(reply, "\n"), nil
	}
}

// Read returns the next message without a deadline.
func (c *ctrlConn) Read() (string, error) {
	if err := c.conn.SetDeadline(time.Time{}); err != nil {
		return "", err
	}
	buf := make([]byte, ctrlBufferSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

func (c *ctrlConn) Close() error {
	err := c.conn.Close()
	_ = os.Remove(c.local)
	return err
}

// EventKind is the type of an unsolicited hostapd message.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventStationConnected
	EventStationDisconnected
	EventAPEnabled
	EventAPDisabled
)

// Event is a parsed hostapd event message.
type Event struct {
	Kind EventKind
	MAC  address.MAC
}

// ParseEvent parses a message such as "<3>AP-STA-CONNECTED aa:bb:cc:dd:ee:ff".
func ParseEvent(msg string) Event {
	msg = strings.TrimSpace(msg)
	if strings.HasPrefix(msg, "<") {
		if end := strings.IndexByte(msg, '>'); end != -1 {
			msg = msg[end+1:]
		}
	}

	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return Event{Kind: EventUnknown}
	}

	switch fields[0] {
	case "AP-STA-CONNECTED", "AP-STA-DISCONNECTED":
		if len(fields) < 2 {
			return Event{Kind: EventUnknown}
		}
		mac := address.ParseMAC(fields[1])
		if !mac.IsValid() {
			return Event{Kind: EventUnknown}
		}
		kind := EventStationConnected
		if fields[0] == "AP-STA-DISCONNECTED" {
			kind = EventStationDisconnected
		}
		return Event{Kind: kind, MAC: mac}
	case "AP-ENABLED":
		return Event{Kind: EventAPEnabled}
	case "AP-DISABLED":
		return Event{Kind: EventAPDisabled}
	default:
		return Event{Kind: EventUnknown}
	}
}

// parseStatusState returns the value of the "state=" line of a STATUS reply.
func parseStatusState(reply string) string {
	for _, line := range strings.Split(reply, "\n") {
		if v, ok := strings.CutPrefix(line, "state="); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
