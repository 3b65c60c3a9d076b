package dhcpd

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/utils"
)

const (
	DefaultDnsmasqBinary = "dnsmasq"
	dnsmasqStopTimeout   = 5 * time.Second
	dnsmasqLeaseTime     = "12h"
)

const dnsmasqConfigTemplate = `# Generated by keen-softap, changes will be overwritten.
interface={interface}
bind-interfaces
except-interface=lo
dhcp-authoritative
dhcp-leasefile={lease_file}
pid-file={pid_file}
{ranges}`

// Dnsmasq runs dnsmasq as the DHCP service of one interface.
type Dnsmasq struct {
	binary   string
	stateDir string

	mu       sync.Mutex
	ranges   []Range
	cmd      *exec.Cmd
	done     chan struct{}
	stopping bool
	onExit   func(err error)
	iface    string
}

// NewDnsmasq creates a service keeping its files in stateDir.
func NewDnsmasq(binary, stateDir string) *Dnsmasq {
	if binary == "" {
		binary = DefaultDnsmasqBinary
	}
	return &Dnsmasq{binary: binary, stateDir: stateDir}
}

func (d *Dnsmasq) AddRange(r Range) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.ranges {
		if existing == r {
			return nil
		}
	}
	d.ranges = append(d.ranges, r)
	return nil
}

func (d *Dnsmasq) RemoveRange(tag string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.ranges[:0]
	for _, r := range d.ranges {
		if r.Tag != tag {
			kept = append(kept, r)
		}
	}
	d.ranges = kept
	return nil
}

func (d *Dnsmasq) OnExit(fn func(err error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onExit = fn
}

// Start writes the configuration and launches dnsmasq in the foreground.
func (d *Dnsmasq) Start(interfaceName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cmd != nil {
		return errors.NewDHCPError("dnsmasq is already running", nil)
	}
	if len(d.ranges) == 0 {
		return errors.NewDHCPError("no DHCP range registered", nil)
	}
	if err := os.MkdirAll(d.stateDir, 0755); err != nil {
		return errors.NewDHCPError("failed to create state directory", err)
	}

	d.iface = interfaceName
	confPath := d.path("conf")
	if err := utils.WriteFileAtomic(confPath, []byte(RenderDnsmasqConfig(interfaceName, d.path("leases"), d.path("pid"), d.ranges)), 0644); err != nil {
		return errors.NewDHCPError("failed to write dnsmasq config", err)
	}
	if err := touch(d.path("leases"), 0644); err != nil {
		return errors.NewDHCPError("failed to prepare lease file", err)
	}

	cmd := exec.Command(d.binary, "--keep-in-foreground", "--conf-file="+confPath)
	stdout := log.ProcessWriter("dnsmasq")
	cmd.Stdout = stdout
	cmd.Stderr = stdout

	log.Debugf("Starting %s", strings.Join(cmd.Args, " "))
	if err := cmd.Start(); err != nil {
		_ = stdout.Close()
		return errors.NewDHCPError("failed to start dnsmasq", err)
	}

	d.cmd = cmd
	d.stopping = false
	d.done = make(chan struct{})
	go d.wait(cmd, d.done, stdout)
	return nil
}

// Stop terminates dnsmasq, killing it if it does not exit in time.
func (d *Dnsmasq) Stop(interfaceName string) error {
	d.mu.Lock()
	cmd, done := d.cmd, d.done
	if cmd == nil {
		d.mu.Unlock()
		return nil
	}
	d.stopping = true
	d.mu.Unlock()

	log.Debugf("Stopping dnsmasq on %s", interfaceName)
	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-done:
	case <-time.After(dnsmasqStopTimeout):
		log.Warnf("dnsmasq did not exit in %v, killing it", dnsmasqStopTimeout)
		_ = cmd.Process.Kill()
		<-done
	}
	return nil
}

// LeaseLines returns the lines of the lease file. A missing file yields no
// lines.
func (d *Dnsmasq) LeaseLines() ([]string, error) {
	f, err := os.Open(d.path("leases"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer utils.CloseOrWarn(f)

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// Release removes the generated configuration. The lease file is kept so
// returning clients get their previous addresses.
func (d *Dnsmasq) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cmd != nil {
		return errors.NewDHCPError("cannot release a running dnsmasq", nil)
	}
	for _, ext := range []string{"conf", "pid"} {
		if err := os.Remove(d.path(ext)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (d *Dnsmasq) wait(cmd *exec.Cmd, done chan struct{}, stdout interface{ Close() error }) {
	err := cmd.Wait()
	_ = stdout.Close()

	d.mu.Lock()
	unexpected := !d.stopping
	onExit := d.onExit
	d.cmd = nil
	d.mu.Unlock()
	close(done)

	if unexpected {
		log.Errorf("dnsmasq exited unexpectedly: %v", err)
		if onExit != nil {
			onExit(err)
		}
	}
}

func (d *Dnsmasq) path(ext string) string {
	name := "dnsmasq"
	if d.iface != "" {
		name += "-" + d.iface
	}
	return filepath.Join(d.stateDir, name+"."+ext)
}

// RenderDnsmasqConfig renders the dnsmasq configuration for ranges.
func RenderDnsmasqConfig(interfaceName, leaseFile, pidFile string, ranges []Range) string {
	var sb strings.Builder
	hasIPv6 := false
	for _, r := range ranges {
		if r.Family == address.FamilyIPv6 {
			hasIPv6 = true
		}
		sb.WriteString(fmt.Sprintf("dhcp-range=set:%s,%s,%s,%s,%s\n", r.Tag, r.StartIP, r.EndIP, r.SubnetMask, dnsmasqLeaseTime))
	}
	if hasIPv6 {
		sb.WriteString("enable-ra\n")
	}

	t := fasttemplate.New(dnsmasqConfigTemplate, "{", "}")
	return t.ExecuteString(map[string]interface{}{
		"interface":  interfaceName,
		"lease_file": leaseFile,
		"pid_file":   pidFile,
		"ranges":     sb.String(),
	})
}

func touch(path string, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Chmod(path, mode)
}
