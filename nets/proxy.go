package nets

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/reusee/turtleplay/cmds"
	"github.com/reusee/turtleplay/configs"
	"github.com/reusee/turtleplay/logs"
	"github.com/reusee/turtleplay/modes"
)

// ProxyAddr is a proxy URL such as socks5://127.0.0.1:1080 or
// http://127.0.0.1:3128. Empty means direct connections.
type ProxyAddr string

func (ProxyAddr) ConfigExpr() string {
	return "proxy_addr"
}

var _ configs.Configurable = ProxyAddr("")

var proxyFlag = cmds.Var[string]("-proxy", "proxy for fetch, like socks5://127.0.0.1:1080")

var proxyEnvs = []string{"ALL_PROXY", "HTTPS_PROXY", "HTTP_PROXY"}

// ProxyAddr is empty in tests so they never leave the machine.
func (Module) ProxyAddr(
	mode modes.Mode,
	loader configs.Loader,
	logger logs.Logger,
) ProxyAddr {
	if mode == modes.ModeDevelopment {
		return ""
	}
	addr, source := *proxyFlag, "flag"
	if addr == "" {
		addr, source = configs.First[string](loader, "proxy_addr"), "config"
	}
	for _, name := range proxyEnvs {
		if addr != "" {
			break
		}
		addr, source = os.Getenv(name), name
		if addr == "" {
			addr = os.Getenv(strings.ToLower(name))
		}
	}
	if addr != "" {
		logger.Info("proxy", "addr", addr, "from", source)
	}
	return ProxyAddr(addr)
}

type GetProxyURL func() (*url.URL, error)

func (Module) GetProxyURL(
	proxyAddr ProxyAddr,
) GetProxyURL {
	return sync.OnceValues(func() (*url.URL, error) {
		return parseProxy(string(proxyAddr))
	})
}

func parseProxy(addr string) (*url.URL, error) {
	if addr == "" {
		return nil, nil
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "socks":
		u.Scheme = "socks5"
	case "socks5", "socks5h", "http", "https":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy without host: %q", addr)
	}
	return u, nil
}

func isSocks(u *url.URL) bool {
	return strings.HasPrefix(u.Scheme, "socks")
}
