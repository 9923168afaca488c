package nets

import (
	"context"
	"net"
	"net/netip"
	"strings"
)

// IsLocalAddr reports whether a host:port resolves to a loopback or private
// address. Hosts that do not resolve count as remote.
type IsLocalAddr func(ctx context.Context, addr string) bool

func (Module) IsLocalAddr() IsLocalAddr {
	return func(ctx context.Context, addr string) bool {
		host := hostOf(addr)
		if ip, err := netip.ParseAddr(host); err == nil {
			return isLocalIP(ip)
		}
		addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		if err != nil {
			return false
		}
		for _, ip := range addrs {
			if isLocalIP(ip) {
				return true
			}
		}
		return false
	}
}

func isLocalIP(ip netip.Addr) bool {
	ip = ip.Unmap()
	return ip.IsLoopback() || ip.IsPrivate()
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	return strings.Trim(host, "[]")
}

// IsLoopbackListen reports whether a listen address only accepts
// connections from this machine. An empty host listens everywhere.
func IsLoopbackListen(addr string) bool {
	host := hostOf(addr)
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip, err := netip.ParseAddr(host)
	return err == nil && ip.Unmap().IsLoopback()
}
