package snapshot

import (
	"errors"
	"syscall"
	"testing"

	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellsgz/sockmon/internal/types"
)

func tcpStat(lip string, lport uint32, rip string, rport uint32, status string, pid int32) psnet.ConnectionStat {
	return psnet.ConnectionStat{
		Family: syscall.AF_INET,
		Type:   syscall.SOCK_STREAM,
		Laddr:  psnet.Addr{IP: lip, Port: lport},
		Raddr:  psnet.Addr{IP: rip, Port: rport},
		Status: status,
		Pid:    pid,
	}
}

func udpStat(lip string, lport uint32, pid int32) psnet.ConnectionStat {
	return psnet.ConnectionStat{
		Family: syscall.AF_INET,
		Type:   syscall.SOCK_DGRAM,
		Laddr:  psnet.Addr{IP: lip, Port: lport},
		Status: "NONE",
		Pid:    pid,
	}
}

func TestFromConnectionStats(t *testing.T) {
	stats := []psnet.ConnectionStat{
		tcpStat("127.0.0.1", 5432, "127.0.0.1", 51000, "ESTABLISHED", 812),
		udpStat("0.0.0.0", 53, 611),
		tcpStat("0.0.0.0", 80, "", 0, "LISTEN", 0),
	}

	got := fromConnectionStats(stats)
	require.Len(t, got, 3)

	tcp, ok := got[0].(*types.TCPSocket)
	require.True(t, ok)
	assert.Equal(t, types.Endpoint{IP: "127.0.0.1", Port: 5432}, tcp.Local)
	assert.Equal(t, types.Endpoint{IP: "127.0.0.1", Port: 51000}, tcp.Remote)
	assert.Equal(t, types.TCPEstablished, tcp.State)
	assert.Equal(t, []int32{812}, tcp.PIDs)

	udp, ok := got[1].(*types.UDPSocket)
	require.True(t, ok)
	assert.Equal(t, uint16(53), udp.Local.Port)
	assert.Equal(t, []int32{611}, udp.PIDs)

	listen := got[2].(*types.TCPSocket)
	assert.Equal(t, types.TCPListen, listen.State)
	assert.Empty(t, listen.PIDs, "pid 0 means unattributed")
	assert.Equal(t, "0.0.0.0", listen.Remote.IP)
}

func TestFromConnectionStats_SharedSocket(t *testing.T) {
	stats := []psnet.ConnectionStat{
		tcpStat("0.0.0.0", 8080, "0.0.0.0", 0, "LISTEN", 300),
		udpStat("0.0.0.0", 5353, 42),
		tcpStat("0.0.0.0", 8080, "0.0.0.0", 0, "LISTEN", 100),
		tcpStat("0.0.0.0", 8080, "0.0.0.0", 0, "LISTEN", 300),
	}

	got := fromConnectionStats(stats)
	require.Len(t, got, 2)

	shared := got[0].(*types.TCPSocket)
	assert.Equal(t, []int32{100, 300}, shared.PIDs)
	assert.IsType(t, &types.UDPSocket{}, got[1])
}

func TestFromConnectionStats_SkipsRawSockets(t *testing.T) {
	raw := tcpStat("0.0.0.0", 0, "", 0, "", 1)
	raw.Type = syscall.SOCK_RAW

	assert.Empty(t, fromConnectionStats([]psnet.ConnectionStat{raw}))
}

func TestEndpoint_IPv6Unspecified(t *testing.T) {
	ep := endpoint(psnet.Addr{Port: 22}, syscall.AF_INET6)
	assert.Equal(t, "::", ep.IP)
	assert.Equal(t, uint16(22), ep.Port)
}

func TestFetchError(t *testing.T) {
	cause := errors.New("permission denied")
	var err error = &FetchError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "permission denied")

	var fe *FetchError
	assert.True(t, errors.As(err, &fe))
}
