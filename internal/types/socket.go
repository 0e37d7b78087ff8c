// Package types defines shared data types used across the sockmon application.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Protocol identifies the transport of a socket.
type Protocol int

const (
	ProtocolTCP Protocol = iota
	ProtocolUDP
)

// String returns the protocol label used in the list pane.
func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	default:
		return "???"
	}
}

// TCPState is the kernel state of a TCP socket.
type TCPState int

const (
	TCPUnknown TCPState = iota
	TCPEstablished
	TCPSynSent
	TCPSynRecv
	TCPFinWait1
	TCPFinWait2
	TCPTimeWait
	TCPClose
	TCPCloseWait
	TCPLastAck
	TCPListen
	TCPClosing
	TCPDeleteTCB
)

var tcpStateNames = map[TCPState]string{
	TCPUnknown:     "UNKNOWN",
	TCPEstablished: "ESTABLISHED",
	TCPSynSent:     "SYN_SENT",
	TCPSynRecv:     "SYN_RECV",
	TCPFinWait1:    "FIN_WAIT1",
	TCPFinWait2:    "FIN_WAIT2",
	TCPTimeWait:    "TIME_WAIT",
	TCPClose:       "CLOSE",
	TCPCloseWait:   "CLOSE_WAIT",
	TCPLastAck:     "LAST_ACK",
	TCPListen:      "LISTEN",
	TCPClosing:     "CLOSING",
	TCPDeleteTCB:   "DELETE_TCB",
}

func (s TCPState) String() string {
	if name, ok := tcpStateNames[s]; ok {
		return name
	}
	return tcpStateNames[TCPUnknown]
}

// ParseTCPState maps a netstat-style state name to a TCPState.
// Unrecognized names map to TCPUnknown.
func ParseTCPState(name string) TCPState {
	name = strings.ToUpper(strings.TrimSpace(name))
	for state, n := range tcpStateNames {
		if n == name {
			return state
		}
	}
	return TCPUnknown
}

// Endpoint is an address/port pair.
type Endpoint struct {
	IP   string `json:"ip"`
	Port uint16 `json:"port"`
}

func (e Endpoint) String() string {
	// IPv6 addresses are printed unbracketed, like netstat does.
	return e.IP + ":" + strconv.Itoa(int(e.Port))
}

// Socket is one observed connection record: either a *TCPSocket or a *UDPSocket.
// Records are immutable once fetched.
type Socket interface {
	Protocol() Protocol
	LocalEndpoint() Endpoint
	// OwnerPIDs returns the processes holding the socket. It may be empty.
	OwnerPIDs() []int32

	socket()
}

// TCPSocket is a connection-oriented socket.
type TCPSocket struct {
	Local  Endpoint
	Remote Endpoint
	State  TCPState
	PIDs   []int32
}

func (*TCPSocket) Protocol() Protocol        { return ProtocolTCP }
func (s *TCPSocket) LocalEndpoint() Endpoint { return s.Local }
func (s *TCPSocket) OwnerPIDs() []int32      { return s.PIDs }
func (*TCPSocket) socket()                   {}

// MarshalJSON adds the protocol discriminator.
func (s *TCPSocket) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Protocol string   `json:"protocol"`
		Local    Endpoint `json:"local"`
		Remote   Endpoint `json:"remote"`
		State    string   `json:"state"`
		PIDs     []int32  `json:"pids"`
	}{"tcp", s.Local, s.Remote, s.State.String(), nonNil(s.PIDs)})
}

// UDPSocket is a datagram socket. It has no remote endpoint.
type UDPSocket struct {
	Local Endpoint
	PIDs  []int32
}

func (*UDPSocket) Protocol() Protocol        { return ProtocolUDP }
func (s *UDPSocket) LocalEndpoint() Endpoint { return s.Local }
func (s *UDPSocket) OwnerPIDs() []int32      { return s.PIDs }
func (*UDPSocket) socket()                   {}

// MarshalJSON adds the protocol discriminator.
func (s *UDPSocket) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Protocol string   `json:"protocol"`
		Local    Endpoint `json:"local"`
		PIDs     []int32  `json:"pids"`
	}{"udp", s.Local, nonNil(s.PIDs)})
}

func nonNil(pids []int32) []int32 {
	if pids == nil {
		return []int32{}
	}
	return pids
}

// FormatPIDs renders a PID list as "[1, 2]".
func FormatPIDs(pids []int32) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = strconv.Itoa(int(pid))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatSocket renders a record as a single list line:
//
//	TCP 127.0.0.1:5432 -> 127.0.0.1:51234 [812] ESTABLISHED
//	UDP 0.0.0.0:53 -> *:* [611]
func FormatSocket(s Socket) string {
	switch s := s.(type) {
	case *TCPSocket:
		return fmt.Sprintf("TCP %s -> %s %s %s", s.Local, s.Remote, FormatPIDs(s.PIDs), s.State)
	case *UDPSocket:
		return fmt.Sprintf("UDP %s -> *:* %s", s.Local, FormatPIDs(s.PIDs))
	default:
		return ""
	}
}
