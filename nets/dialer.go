package nets

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

type Dialer interface {
	Dial(network, addr string) (net.Conn, error)
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// Dialer connects local addresses directly and everything else through
// a SOCKS proxy when one is configured. HTTP proxies are applied by the
// client transport instead.
func (Module) Dialer(
	getURL GetProxyURL,
	isLocalAddr IsLocalAddr,
) Dialer {
	direct := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	getSocks := sync.OnceValues(func() (proxy.ContextDialer, error) {
		u, err := getURL()
		if err != nil {
			return nil, err
		}
		if u == nil || !isSocks(u) {
			return nil, nil
		}
		d, err := proxy.FromURL(u, direct)
		if err != nil {
			return nil, err
		}
		if cd, ok := d.(proxy.ContextDialer); ok {
			return cd, nil
		}
		return DialerFunc(func(_ context.Context, network, addr string) (net.Conn, error) {
			return d.Dial(network, addr)
		}), nil
	})

	return DialerFunc(func(ctx context.Context, network, addr string) (net.Conn, error) {
		if isLocalAddr(ctx, addr) {
			return direct.DialContext(ctx, network, addr)
		}
		socks, err := getSocks()
		if err != nil {
			return nil, fmt.Errorf("proxy: %w", err)
		}
		if socks == nil {
			return direct.DialContext(ctx, network, addr)
		}
		return socks.DialContext(ctx, network, addr)
	})
}

type DialerFunc func(ctx context.Context, network, addr string) (net.Conn, error)

var _ Dialer = DialerFunc(nil)

func (d DialerFunc) DialContext(ctx context.Context, network string, addr string) (net.Conn, error) {
	return d(ctx, network, addr)
}

func (d DialerFunc) Dial(network string, addr string) (net.Conn, error) {
	return d(context.Background(), network, addr)
}
