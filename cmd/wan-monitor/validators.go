package main

import (
	"net"
	"net/url"
	"strings"
)

func isIP4Addr(val string) bool {
	if idx := strings.LastIndex(val, ":"); idx != -1 {
		val = val[0:idx]
	}

	ip := net.ParseIP(val)

	return ip != nil && ip.To4() != nil
}

func isIP6Addr(val string) bool {
	if idx := strings.LastIndex(val, ":"); idx != -1 {
		if idx != 0 && val[idx-1:idx] == "]" {
			val = val[1 : idx-1]
		}
	}

	ip := net.ParseIP(val)

	return ip != nil && ip.To4() == nil
}

func isTCPAddr(val string) bool {
	if !isIP4Addr(val) && !isIP6Addr(val) {
		return false
	}

	_, err := net.ResolveTCPAddr("tcp", val)

	return err == nil
}

func isLogLevel(val string) bool {
	val = strings.ToLower(val)
	return val == "debug" || val == "info" || val == "warn" || val == "error"
}

func isHTTPURL(val string) bool {
	u, err := url.Parse(val)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isISPURLTemplate accepts an http(s) URL with exactly one %s placeholder for the IP address.
// Any other % must start a percent-encoded byte.
func isISPURLTemplate(val string) bool {
	if strings.Count(val, "%s") != 1 {
		return false
	}

	u := strings.Replace(val, "%s", "203.0.113.1", 1)

	for i := 0; i < len(u); i++ {
		if u[i] != '%' {
			continue
		}

		if i+2 >= len(u) || !isHex(u[i+1]) || !isHex(u[i+2]) {
			return false
		}
	}

	return isHTTPURL(u)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isBrokerURL(val string) bool {
	u, err := url.Parse(val)
	if err != nil || u.Host == "" {
		return false
	}

	switch u.Scheme {
	case "mqtt", "mqtts", "tcp", "ssl", "tls", "ws", "wss":
		return true
	default:
		return false
	}
}
