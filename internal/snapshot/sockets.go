package snapshot

import (
	"context"
	"slices"
	"syscall"

	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/wellsgz/sockmon/internal/types"
)

// System enumerates sockets through the operating system's netstat facilities.
type System struct {
	kind string
}

// NewSystem returns a provider covering TCP and UDP over IPv4 and IPv6.
func NewSystem() *System {
	return &System{kind: "inet"}
}

// Connections lists all TCP and UDP sockets. Any failure is a *FetchError.
func (s *System) Connections(ctx context.Context) ([]types.Socket, error) {
	stats, err := psnet.ConnectionsWithContext(ctx, s.kind)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	return fromConnectionStats(stats), nil
}

type socketKey struct {
	sockType uint32
	local    psnet.Addr
	remote   psnet.Addr
	status   string
}

// fromConnectionStats converts raw netstat entries into records. The OS reports
// a shared socket once per owning process; those entries are folded into one
// record carrying every PID, at the position the socket was first seen.
func fromConnectionStats(stats []psnet.ConnectionStat) []types.Socket {
	var (
		order []socketKey
		pids  = make(map[socketKey][]int32)
		first = make(map[socketKey]psnet.ConnectionStat)
	)

	for _, st := range stats {
		if st.Type != syscall.SOCK_STREAM && st.Type != syscall.SOCK_DGRAM {
			continue
		}
		key := socketKey{sockType: st.Type, local: st.Laddr, remote: st.Raddr, status: st.Status}
		if st.Type == syscall.SOCK_DGRAM {
			key.remote = psnet.Addr{}
			key.status = ""
		}

		if _, seen := first[key]; !seen {
			first[key] = st
			order = append(order, key)
			pids[key] = nil
		}
		if st.Pid > 0 && !slices.Contains(pids[key], st.Pid) {
			pids[key] = append(pids[key], st.Pid)
		}
	}

	sockets := make([]types.Socket, 0, len(order))
	for _, key := range order {
		st := first[key]
		owners := pids[key]
		slices.Sort(owners)

		local := endpoint(st.Laddr, st.Family)
		if st.Type == syscall.SOCK_DGRAM {
			sockets = append(sockets, &types.UDPSocket{Local: local, PIDs: owners})
			continue
		}
		sockets = append(sockets, &types.TCPSocket{
			Local:  local,
			Remote: endpoint(st.Raddr, st.Family),
			State:  types.ParseTCPState(st.Status),
			PIDs:   owners,
		})
	}
	return sockets
}

func endpoint(a psnet.Addr, family uint32) types.Endpoint {
	ip := a.IP
	if ip == "" {
		ip = "0.0.0.0"
		if family == syscall.AF_INET6 {
			ip = "::"
		}
	}
	return types.Endpoint{IP: ip, Port: uint16(a.Port)}
}
