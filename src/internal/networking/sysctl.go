package networking

import (
	"os"
	"path/filepath"
)

const (
	SysctlIPv4Forward = "net/ipv4/ip_forward"
	SysctlIPv6Forward = "net/ipv6/conf/all/forwarding"
	SysctlRouteFlush  = "net/ipv4/route/flush"
)

// Sysctl writes kernel parameters.
type Sysctl interface {
	Write(key, value string) error
	Read(key string) (string, error)
}

// ProcSysctl writes kernel parameters through /proc/sys.
type ProcSysctl struct {
	Root string
}

func NewProcSysctl() *ProcSysctl {
	return &ProcSysctl{Root: "/proc/sys"}
}

func (p *ProcSysctl) Write(key, value string) error {
	return os.WriteFile(filepath.Join(p.Root, key), []byte(value), 0644)
}

func (p *ProcSysctl) Read(key string) (string, error) {
	b, err := os.ReadFile(filepath.Join(p.Root, key))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
