package resolver

import (
	"context"
	"fmt"
	"net"
	"os"

	"ipwatch/internal/config"
	"ipwatch/internal/types"
	"ipwatch/internal/utils"

	"go.uber.org/zap"
)

// Resolution modes
const (
	ModeHostname   = "hostname"
	ModeInterfaces = "interfaces"
)

// ifaceAddrs is the IPv4-relevant view of a network interface
type ifaceAddrs struct {
	name  string
	flags net.Flags
	ips   []net.IP
}

// Resolver determines the host's local IPv4 address
type Resolver struct {
	config *config.ResolverConfig
	logger *zap.Logger

	hostname   func() (string, error)
	lookupIP   func(ctx context.Context, network, host string) ([]net.IP, error)
	interfaces func() ([]ifaceAddrs, error)
}

// NewResolver creates new resolver
func NewResolver(cfg *config.ResolverConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		config:     cfg,
		logger:     logger,
		hostname:   os.Hostname,
		lookupIP:   net.DefaultResolver.LookupIP,
		interfaces: systemInterfaces,
	}
}

// CurrentAddress returns the first IPv4 address of the local host.
// Every failure is a types.KindResolution error; an empty address is never returned.
func (r *Resolver) CurrentAddress(ctx context.Context) (string, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	var (
		ip  net.IP
		err error
	)
	switch r.config.Mode {
	case ModeInterfaces:
		ip, err = r.fromInterfaces()
	case ModeHostname, "":
		ip, err = r.fromHostname(ctx)
	default:
		err = types.ResolutionError("select mode", fmt.Errorf("unknown resolver mode: %s", r.config.Mode))
	}
	if err != nil {
		return "", err
	}

	addr := ip.String()
	if !utils.IsValidIPv4(addr) {
		return "", types.ResolutionError("format address", types.ErrNoIPv4Address)
	}
	return addr, nil
}

// fromHostname resolves the local hostname and picks its first IPv4 address
func (r *Resolver) fromHostname(ctx context.Context) (net.IP, error) {
	host := r.config.Hostname
	if host == "" {
		var err error
		if host, err = r.hostname(); err != nil {
			return nil, types.ResolutionError("get hostname", err)
		}
	}

	ips, err := r.lookupIP(ctx, "ip", host)
	if err != nil {
		return nil, types.ResolutionError("lookup "+host, err)
	}

	ip, ok := utils.FirstIPv4(ips)
	if !ok {
		return nil, types.ResolutionError("lookup "+host, types.ErrNoIPv4Address)
	}

	r.logger.Debug("Resolved local address",
		zap.String("hostname", host),
		zap.Int("candidates", len(ips)),
		zap.String("address", ip.String()))

	return ip, nil
}

// fromInterfaces picks the first IPv4 address on an up, physical interface
func (r *Resolver) fromInterfaces() (net.IP, error) {
	ifaces, err := r.interfaces()
	if err != nil {
		return nil, types.ResolutionError("list interfaces", err)
	}

	for _, iface := range ifaces {
		if !utils.IsPhysicalInterface(iface.name, iface.flags) {
			continue
		}
		if ip, ok := utils.FirstIPv4(iface.ips); ok {
			r.logger.Debug("Resolved local address",
				zap.String("interface", iface.name),
				zap.String("address", ip.String()))
			return ip, nil
		}
	}

	return nil, types.ResolutionError("list interfaces", types.ErrNoIPv4Address)
}

// systemInterfaces lists the host's interfaces with their addresses
func systemInterfaces() ([]ifaceAddrs, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	result := make([]ifaceAddrs, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			return nil, fmt.Errorf("failed to get addresses of %s: %w", iface.Name, err)
		}

		entry := ifaceAddrs{name: iface.Name, flags: iface.Flags}
		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok {
				entry.ips = append(entry.ips, ipNet.IP)
			}
		}
		result = append(result, entry)
	}

	return result, nil
}
