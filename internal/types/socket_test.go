package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSocket(t *testing.T) {
	tests := []struct {
		name string
		in   Socket
		want string
	}{
		{
			name: "tcp",
			in: &TCPSocket{
				Local:  Endpoint{IP: "127.0.0.1", Port: 5432},
				Remote: Endpoint{IP: "127.0.0.1", Port: 51234},
				State:  TCPEstablished,
				PIDs:   []int32{812},
			},
			want: "TCP 127.0.0.1:5432 -> 127.0.0.1:51234 [812] ESTABLISHED",
		},
		{
			name: "tcp listen no owner",
			in: &TCPSocket{
				Local:  Endpoint{IP: "::", Port: 22},
				Remote: Endpoint{IP: "::", Port: 0},
				State:  TCPListen,
			},
			want: "TCP :::22 -> :::0 [] LISTEN",
		},
		{
			name: "udp shared",
			in:   &UDPSocket{Local: Endpoint{IP: "0.0.0.0", Port: 53}, PIDs: []int32{611, 612}},
			want: "UDP 0.0.0.0:53 -> *:* [611, 612]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSocket(tt.in))
		})
	}
}

func TestParseTCPState(t *testing.T) {
	tests := []struct {
		in   string
		want TCPState
	}{
		{"ESTABLISHED", TCPEstablished},
		{"close_wait", TCPCloseWait},
		{" LISTEN ", TCPListen},
		{"TIME_WAIT", TCPTimeWait},
		{"NONE", TCPUnknown},
		{"", TCPUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTCPState(tt.in))
		})
	}
	assert.Equal(t, "UNKNOWN", TCPState(99).String())
}

func TestSocketJSON(t *testing.T) {
	data, err := json.Marshal([]Socket{
		&TCPSocket{Local: Endpoint{IP: "10.0.0.2", Port: 443}, Remote: Endpoint{IP: "10.0.0.9", Port: 60000}, State: TCPEstablished},
		&UDPSocket{Local: Endpoint{IP: "0.0.0.0", Port: 123}, PIDs: []int32{7}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"protocol":"tcp","local":{"ip":"10.0.0.2","port":443},"remote":{"ip":"10.0.0.9","port":60000},"state":"ESTABLISHED","pids":[]},
		{"protocol":"udp","local":{"ip":"0.0.0.0","port":123},"pids":[7]}
	]`, string(data))
}
