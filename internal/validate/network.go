package validate

import (
	"net/netip"
	"strconv"
	"strings"
)

const (
	// IPv4 is the WhichIPVersion label for IPv4 addresses.
	IPv4 = "IPv4"
	// IPv6 is the WhichIPVersion label for IPv6 addresses.
	IPv6 = "IPv6"
)

func parseAddr(value string) (netip.Addr, bool) {
	if value == "" {
		return netip.Addr{}, false
	}
	addr, err := netip.ParseAddr(value)
	if err != nil || addr.Zone() != "" {
		return netip.Addr{}, false
	}
	return addr, true
}

// IsIPv4 reports whether value is a dotted-quad IPv4 address.
func IsIPv4(value string) bool {
	addr, ok := parseAddr(value)
	return ok && addr.Is4()
}

// IsIPv6 reports whether value is an IPv6 address, including IPv4-mapped
// forms such as ::ffff:127.0.0.1. Zoned addresses are rejected.
func IsIPv6(value string) bool {
	addr, ok := parseAddr(value)
	return ok && addr.Is6()
}

// IsIPv4CIDR reports whether value is an IPv4 address with a /0-/32 suffix.
func IsIPv4CIDR(value string) bool {
	prefix, bits, ok := splitCIDR(value)
	return ok && bits <= 32 && IsIPv4(prefix)
}

// IsIPv6CIDR reports whether value is an IPv6 address with a /0-/128 suffix.
func IsIPv6CIDR(value string) bool {
	prefix, bits, ok := splitCIDR(value)
	return ok && bits <= 128 && IsIPv6(prefix)
}

// IsLoopback reports whether value is 127.0.0.0/8 or ::1. IPv4-mapped IPv6
// addresses are never loopback.
func IsLoopback(value string) bool {
	addr, ok := parseAddr(value)
	if !ok || addr.Is4In6() {
		return false
	}
	return addr.IsLoopback()
}

// IsIPAny reports whether value is an IPv4 or IPv6 address.
func IsIPAny(value string) bool {
	_, ok := parseAddr(value)
	return ok
}

// IsCIDRAny reports whether value is an IPv4 or IPv6 CIDR.
func IsCIDRAny(value string) bool {
	return IsIPv4CIDR(value) || IsIPv6CIDR(value)
}

// WhichIPVersion returns IPv4 or IPv6 for an address.
func WhichIPVersion(value string) (string, bool) {
	switch {
	case IsIPv4(value):
		return IPv4, true
	case IsIPv6(value):
		return IPv6, true
	}
	return "", false
}

// splitCIDR splits on the last slash. The suffix must be an unsigned decimal.
func splitCIDR(value string) (string, uint64, bool) {
	i := strings.LastIndexByte(value, '/')
	if i <= 0 || i == len(value)-1 {
		return "", 0, false
	}
	bits, err := strconv.ParseUint(value[i+1:], 10, 8)
	if err != nil {
		return "", 0, false
	}
	return value[:i], bits, true
}
