package functions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

var (
	proxyIndex int
	proxyMu    sync.Mutex
)

func plainTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		DisableKeepAlives:   false,
	}
}

// AssetTransport returns the transport asset downloads go through.
// When SOCKS5_PROXIES is set (comma-separated host:port list), calls
// rotate across those proxies; otherwise a plain transport is used.
func AssetTransport() *http.Transport {
	var proxyList []string
	for _, addr := range strings.Split(os.Getenv("SOCKS5_PROXIES"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			proxyList = append(proxyList, addr)
		}
	}
	if len(proxyList) == 0 {
		return plainTransport()
	}

	proxyMu.Lock()
	proxyIndex++
	if proxyIndex >= len(proxyList) {
		proxyIndex = 0
	}
	socks5Addr := proxyList[proxyIndex]
	proxyMu.Unlock()

	var auth *proxy.Auth
	if user := os.Getenv("SOCKS5_USER"); user != "" {
		auth = &proxy.Auth{
			User:     user,
			Password: os.Getenv("SOCKS5_PASS"),
		}
	}

	dialer, err := proxy.SOCKS5("tcp", socks5Addr, auth, proxy.Direct)
	if err != nil {
		fmt.Println("Failed to create SOCKS5 dialer:", err)
		return plainTransport()
	}

	t := plainTransport()
	t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}
	return t
}
