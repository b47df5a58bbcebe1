package netutil

import (
	"fmt"
	"net"
)

// BrowserHost returns the host a browser should use to reach a server bound
// on host. Wildcard binds are replaced by the first usable LAN address.
func BrowserHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		if ip, err := FirstUsableIPv4(); err == nil {
			return ip
		}
		return "localhost"
	}
	return host
}

func FirstUsableIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&(net.FlagUp|net.FlagLoopback) != net.FlagUp {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipn, ok := a.(*net.IPNet); ok && ipn.IP.To4() != nil {
				ip := ipn.IP.To4()
				if !ip.IsLoopback() {
					return ip.String(), nil
				}
			}
		}
	}
	return "", fmt.Errorf("no IPv4 found")
}
