package singleinstance

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"

	statusSuccess = "SUCCESS\n"
	statusError   = "ERROR\n"
)

// Action is what a client asks the resident to do.
type Action string

const (
	// ActionCapture runs one region capture on the resident.
	ActionCapture Action = "CAPTURE"
	// ActionLocate re-runs engine resolution on the resident.
	ActionLocate Action = "LOCATE"
)

// Request represents a single run-once client request.
type Request struct {
	Action         Action
	OutputToStdout bool
}

// line encodes r as the first protocol line, e.g. "CAPTURE STDOUT\n".
func (r Request) line() string {
	switch r.Action {
	case ActionLocate:
		return string(ActionLocate) + "\n"
	default:
		if r.OutputToStdout {
			return string(ActionCapture) + " STDOUT\n"
		}
		return string(ActionCapture) + " CLIPBOARD\n"
	}
}

func parseRequest(line string) (Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Request{}, fmt.Errorf("empty request")
	}
	switch Action(fields[0]) {
	case ActionLocate:
		return Request{Action: ActionLocate}, nil
	case ActionCapture:
		stdout := len(fields) > 1 && fields[1] == "STDOUT"
		return Request{Action: ActionCapture, OutputToStdout: stdout}, nil
	default:
		return Request{}, fmt.Errorf("unknown request %q", strings.TrimSpace(line))
	}
}

func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(pingRequest); err != nil {
		return false
	}
	if err := w.Flush(); err != nil {
		return false
	}
	br := bufio.NewReader(conn)
	resp, err := br.ReadString('\n')
	return err == nil && resp == pongResponse
}
