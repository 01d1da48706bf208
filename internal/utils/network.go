package utils

import (
	"net"
	"os"
	"path/filepath"
	"strings"
)

// FirstIPv4 returns the first IPv4 address in ips, preserving order
func FirstIPv4(ips []net.IP) (net.IP, bool) {
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4, true
		}
	}
	return nil, false
}

// IsValidIPv4 checks if a string is a valid IPv4 address
func IsValidIPv4(ip string) bool {
	parsedIP := net.ParseIP(ip)
	return parsedIP != nil && parsedIP.To4() != nil
}

// IsVirtualInterface checks if the interface is virtual/non-physical
func IsVirtualInterface(name string) bool {
	// Common prefixes for virtual interfaces
	virtualPrefixes := []string{
		"docker", "veth", "br-", "vmbr", "virbr",
		"vnet", "tun", "tap", "bond", "team",
		"vmnet", "wg", "ham", "vxlan", "overlay",
		"cni", "flannel", "cali", "lxcbr",
	}

	name = strings.ToLower(name)
	for _, prefix := range virtualPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// InterfaceType represents the type of network interface
type InterfaceType string

const (
	InterfaceTypeEthernet  InterfaceType = "ethernet"
	InterfaceTypeWireless  InterfaceType = "wireless"
	InterfaceTypeVirtual   InterfaceType = "virtual"
	InterfaceTypeBridge    InterfaceType = "bridge"
	InterfaceTypeTunnel    InterfaceType = "tunnel"
	InterfaceTypeBonding   InterfaceType = "bonding"
	InterfaceTypeContainer InterfaceType = "container"
	InterfaceTypeVPN       InterfaceType = "vpn"
)

// interfaceTypePrefixes maps interface name prefixes to their types
var interfaceTypePrefixes = map[string]InterfaceType{
	"eth":    InterfaceTypeEthernet,
	"en":     InterfaceTypeEthernet, // macOS/BSD style
	"wlan":   InterfaceTypeWireless,
	"wifi":   InterfaceTypeWireless,
	"wl":     InterfaceTypeWireless,
	"docker": InterfaceTypeContainer,
	"veth":   InterfaceTypeVirtual,
	"br":     InterfaceTypeBridge,
	"bond":   InterfaceTypeBonding,
	"tun":    InterfaceTypeTunnel,
	"tap":    InterfaceTypeTunnel,
	"vpn":    InterfaceTypeVPN,
	"wg":     InterfaceTypeVPN, // WireGuard
	"ipsec":  InterfaceTypeVPN,
	"vxlan":  InterfaceTypeVirtual,
	"vmnet":  InterfaceTypeVirtual,
	"virbr":  InterfaceTypeBridge, // libvirt bridge
	"lxcbr":  InterfaceTypeBridge, // LXC bridge
	"vmbr":   InterfaceTypeBridge, // Proxmox bridge
}

// GetInterfaceType determines the type of network interface
func GetInterfaceType(ifaceName string) InterfaceType {
	name := strings.ToLower(ifaceName)

	// Longest matching prefix, so map iteration order does not matter
	var (
		best    InterfaceType
		bestLen int
	)
	for prefix, ifaceType := range interfaceTypePrefixes {
		if strings.HasPrefix(name, prefix) && len(prefix) > bestLen {
			best, bestLen = ifaceType, len(prefix)
		}
	}
	if bestLen > 0 {
		return best
	}

	// Check if it's a wireless interface (on Linux)
	if IsLinux() {
		if _, err := os.Stat(filepath.Join("/sys/class/net", ifaceName, "wireless")); err == nil {
			return InterfaceTypeWireless
		}
	}

	return InterfaceTypeEthernet
}

// IsPhysicalInterface checks if the interface is an up, non-loopback ethernet or wireless link
func IsPhysicalInterface(name string, flags net.Flags) bool {
	ifaceType := GetInterfaceType(name)

	isPhysical := ifaceType == InterfaceTypeEthernet || ifaceType == InterfaceTypeWireless

	hasValidFlags := flags&net.FlagLoopback == 0 && // not loopback
		flags&net.FlagUp != 0 // is up

	return isPhysical && hasValidFlags && !IsVirtualInterface(name)
}
