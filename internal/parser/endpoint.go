package parser

import (
	"net"
	"strings"
)

// splitEndpoint splits "ip:port", "[ipv6]:port", a bare IPv4 or a bare IPv6 address.
// A missing part is returned as an empty string.
func splitEndpoint(raw string) (ip, port string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ""
	}

	if strings.HasPrefix(s, "[") {
		if host, p, err := net.SplitHostPort(s); err == nil {
			return host, p
		}
		// "[fe80::1]" without a port
		return strings.Trim(s, "[]"), ""
	}

	switch strings.Count(s, ":") {
	case 0:
		return s, ""
	case 1:
		i := strings.IndexByte(s, ':')
		return s[:i], s[i+1:]
	default:
		// bare IPv6, the port cannot be told apart from the last group
		return s, ""
	}
}
