package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/utils"
)

const (
	DefaultHostapdBinary = "hostapd"
	DefaultIwBinary      = "iw"

	ctrlTimeout       = 2 * time.Second
	readyTimeout      = 15 * time.Second
	readyPollInterval = 250 * time.Millisecond
	stopTimeout       = 5 * time.Second
)

// HostapdOptions configures a HostapdDriver.
type HostapdOptions struct {
	Interface     string
	StateDir      string
	HostapdBinary string
	IwBinary      string
	Runner        CommandRunner
	Radio         Radio
}

// HostapdDriver runs the access point with hostapd.
type HostapdDriver struct {
	iface    string
	stateDir string
	hostapd  string
	iw       string
	runner   CommandRunner
	radio    Radio

	mu       sync.Mutex
	events   Events
	radioInf RadioInfo
	enabled  bool
	country  string
	deny     map[string]address.MAC
	proc     *hostapdProcess
}

type hostapdProcess struct {
	cmd      *exec.Cmd
	done     chan struct{}
	cancel   context.CancelFunc
	stopping bool
	up       bool
}

func NewHostapdDriver(opts HostapdOptions) *HostapdDriver {
	d := &HostapdDriver{
		iface:    opts.Interface,
		stateDir: opts.StateDir,
		hostapd:  opts.HostapdBinary,
		iw:       opts.IwBinary,
		runner:   opts.Runner,
		radio:    opts.Radio,
		deny:     make(map[string]address.MAC),
	}
	if d.hostapd == "" {
		d.hostapd = DefaultHostapdBinary
	}
	if d.iw == "" {
		d.iw = DefaultIwBinary
	}
	if d.runner == nil {
		d.runner = ExecRunner{}
	}
	if d.radio == nil {
		d.radio = NL80211Radio{}
	}
	return d
}

func (d *HostapdDriver) InterfaceName() string {
	return d.iface
}

func (d *HostapdDriver) RegisterEvents(ev Events) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = ev
}

// EnableAP checks that the interface is backed by a wireless device and
// prepares the runtime directories.
func (d *HostapdDriver) EnableAP() error {
	info, err := d.radio.Lookup(d.iface)
	if err != nil {
		return errors.NewDriverError("radio not available", err)
	}
	if err := os.MkdirAll(d.ctrlDir(), 0750); err != nil {
		return errors.NewDriverError("failed to create control directory", err)
	}

	d.mu.Lock()
	d.radioInf = info
	d.enabled = true
	err = d.writeDenyFileLocked()
	d.mu.Unlock()
	if err != nil {
		return errors.NewDriverError("failed to write deny list", err)
	}

	log.Infof("Radio %s of %s is ready for access point mode", info.PHYName(), d.iface)
	return nil
}

// DisableAP stops hostapd.
func (d *HostapdDriver) DisableAP() error {
	d.mu.Lock()
	proc := d.proc
	d.enabled = false
	d.mu.Unlock()

	if proc != nil {
		d.stop(proc)
	}
	log.Infof("Access point on %s disabled", d.iface)
	return nil
}

// SetConfig writes the hostapd configuration and (re)starts hostapd.
func (d *HostapdDriver) SetConfig(cfg config.HotspotConfig) error {
	d.mu.Lock()
	if !d.enabled {
		d.mu.Unlock()
		return errors.NewDriverError("access point is not enabled", nil)
	}
	proc := d.proc
	conf := RenderHostapdConfig(HostapdConfigParams{
		Interface:   d.iface,
		CtrlDir:     d.ctrlDir(),
		DenyFile:    d.denyFile(),
		CountryCode: d.country,
		Hotspot:     cfg,
	})
	d.mu.Unlock()

	if proc != nil {
		d.stop(proc)
	}

	confPath := filepath.Join(d.stateDir, "hostapd-"+d.iface+".conf")
	if err := utils.WriteFileAtomic(confPath, []byte(conf), 0600); err != nil {
		return errors.NewDriverError("failed to write hostapd config", err)
	}

	cmd := exec.Command(d.hostapd, confPath)
	out := log.ProcessWriter("hostapd")
	cmd.Stdout = out
	cmd.Stderr = out

	log.Debugf("Starting %s", strings.Join(cmd.Args, " "))
	if err := cmd.Start(); err != nil {
		_ = out.Close()
		return errors.NewDriverError("failed to start hostapd", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &hostapdProcess{cmd: cmd, done: make(chan struct{}), cancel: cancel}

	d.mu.Lock()
	d.proc = p
	d.mu.Unlock()

	go d.wait(p, out)
	go d.watch(ctx, p)
	return nil
}

func (d *HostapdDriver) Stations() ([]address.MAC, error) {
	macs, err := d.radio.Stations(d.iface)
	if err == nil {
		return macs, nil
	}
	log.Debugf("nl80211 station list failed, asking hostapd: %v", err)

	conn, cerr := d.dial()
	if cerr != nil {
		return nil, errors.NewDriverError("failed to list stations", cerr)
	}
	defer conn.Close()

	var stations []address.MAC
	reply, rerr := conn.Request("STA-FIRST", ctrlTimeout)
	for rerr == nil && reply != "" && reply != "FAIL" {
		mac := address.ParseMAC(strings.TrimSpace(strings.SplitN(reply, "\n", 2)[0]))
		if !mac.IsValid() {
			break
		}
		stations = append(stations, mac)
		reply, rerr = conn.Request("STA-NEXT "+mac.String(), ctrlTimeout)
	}
	if rerr != nil {
		return nil, errors.NewDriverError(fmt.Sprintf("failed to list stations after %d entries", len(stations)), rerr)
	}
	return stations, nil
}

// AddBlock adds mac to the deny list and disconnects it if associated.
func (d *HostapdDriver) AddBlock(mac address.MAC) error {
	d.mu.Lock()
	d.deny[mac.String()] = mac
	err := d.writeDenyFileLocked()
	d.mu.Unlock()
	if err != nil {
		return errors.NewDriverError("failed to write deny list", err)
	}
	return d.commandIfRunning("DENY_ACL ADD_MAC " + mac.String())
}

func (d *HostapdDriver) DelBlock(mac address.MAC) error {
	d.mu.Lock()
	delete(d.deny, mac.String())
	err := d.writeDenyFileLocked()
	d.mu.Unlock()
	if err != nil {
		return errors.NewDriverError("failed to write deny list", err)
	}
	return d.commandIfRunning("DENY_ACL DEL_MAC " + mac.String())
}

func (d *HostapdDriver) Disconnect(mac address.MAC) error {
	if !d.running() {
		return errors.NewDriverError("access point is not running", nil)
	}
	return d.command("DISASSOCIATE " + mac.String())
}

// Frequencies reads the usable frequencies of the radio from iw.
func (d *HostapdDriver) Frequencies(band config.Band) ([]int, error) {
	d.mu.Lock()
	info := d.radioInf
	d.mu.Unlock()

	out, err := d.runner.Output(d.iw, "phy", info.PHYName(), "info")
	if err != nil {
		return nil, errors.NewDriverError("failed to query "+info.PHYName(), err)
	}
	return ParseIwFrequencies(out)[band], nil
}

// SetCountryCode sets the regulatory domain. It is also written to the
// hostapd configuration on the next SetConfig.
func (d *HostapdDriver) SetCountryCode(code string) error {
	if _, err := d.runner.Output(d.iw, "reg", "set", code); err != nil {
		return errors.NewDriverError("failed to set regulatory domain "+code, err)
	}
	d.mu.Lock()
	d.country = code
	d.mu.Unlock()
	return nil
}

func (d *HostapdDriver) wait(p *hostapdProcess, out io.Closer) {
	err := p.cmd.Wait()
	_ = out.Close()
	p.cancel()

	d.mu.Lock()
	unexpected := !p.stopping
	if d.proc == p {
		d.proc = nil
	}
	d.mu.Unlock()
	close(p.done)

	if unexpected {
		log.Errorf("hostapd exited unexpectedly: %v", err)
		d.fireDisabled()
	}
}

// watch waits for hostapd to bring the access point up and relays its
// events until ctx is cancelled.
func (d *HostapdDriver) watch(ctx context.Context, p *hostapdProcess) {
	conn, err := d.waitReady(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Errorf("hostapd did not become ready: %v", err)
			d.stop(p)
			d.fireDisabled()
		}
		return
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	if reply, err := conn.Request("ATTACH", ctrlTimeout); err != nil || reply != "OK" {
		log.Warnf("Failed to attach to hostapd events: %v %s", err, reply)
	}
	if reply, err := d.request("STATUS"); err == nil && parseStatusState(reply) == "ENABLED" {
		d.markUp(p)
	}

	for {
		msg, err := conn.Read()
		if err != nil {
			return
		}
		d.dispatch(p, ParseEvent(msg))
	}
}

func (d *HostapdDriver) waitReady(ctx context.Context) (*ctrlConn, error) {
	deadline := time.Now().Add(readyTimeout)
	var lastErr error
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(readyPollInterval):
		}

		conn, err := d.dial()
		if err != nil {
			lastErr = err
			continue
		}
		if reply, err := conn.Request("PING", ctrlTimeout); err == nil && reply == "PONG" {
			return conn, nil
		} else if err != nil {
			lastErr = err
		}
		_ = conn.Close()
	}
	return nil, lastErr
}

func (d *HostapdDriver) dispatch(p *hostapdProcess, ev Event) {
	d.mu.Lock()
	events := d.events
	stopping := p.stopping
	d.mu.Unlock()
	if stopping {
		return
	}

	switch ev.Kind {
	case EventStationConnected:
		log.Infof("Station %s associated", ev.MAC)
		if events.StationJoined != nil {
			events.StationJoined(ev.MAC)
		}
	case EventStationDisconnected:
		log.Infof("Station %s left", ev.MAC)
		if events.StationLeft != nil {
			events.StationLeft(ev.MAC)
		}
	case EventAPEnabled:
		d.markUp(p)
	case EventAPDisabled:
		d.mu.Lock()
		p.up = false
		d.mu.Unlock()
		d.fireDisabled()
	}
}

// markUp reports HotspotEnabled once per hostapd run.
func (d *HostapdDriver) markUp(p *hostapdProcess) {
	d.mu.Lock()
	already := p.up
	p.up = true
	events := d.events
	d.mu.Unlock()

	if already {
		return
	}
	log.Infof("Access point on %s is up", d.iface)
	if events.HotspotEnabled != nil {
		events.HotspotEnabled()
	}
}

func (d *HostapdDriver) fireDisabled() {
	d.mu.Lock()
	events := d.events
	d.mu.Unlock()
	if events.HotspotDisabled != nil {
		events.HotspotDisabled()
	}
}

func (d *HostapdDriver) stop(p *hostapdProcess) {
	d.mu.Lock()
	p.stopping = true
	d.mu.Unlock()
	p.cancel()

	_ = p.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-p.done:
	case <-time.After(stopTimeout):
		log.Warnf("hostapd did not exit in %v, killing it", stopTimeout)
		_ = p.cmd.Process.Kill()
		<-p.done
	}
}

func (d *HostapdDriver) running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.proc != nil
}

func (d *HostapdDriver) commandIfRunning(cmd string) error {
	if !d.running() {
		return nil
	}
	return d.command(cmd)
}

func (d *HostapdDriver) command(cmd string) error {
	reply, err := d.request(cmd)
	if err != nil {
		return errors.NewDriverError(cmd+" failed", err)
	}
	if reply != "OK" {
		return errors.NewDriverError(cmd+" failed: "+reply, nil)
	}
	return nil
}

func (d *HostapdDriver) request(cmd string) (string, error) {
	conn, err := d.dial()
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.Request(cmd, ctrlTimeout)
}

func (d *HostapdDriver) dial() (*ctrlConn, error) {
	return dialCtrl(filepath.Join(d.ctrlDir(), d.iface), d.stateDir)
}

func (d *HostapdDriver) ctrlDir() string {
	return filepath.Join(d.stateDir, "hostapd")
}

func (d *HostapdDriver) denyFile() string {
	return filepath.Join(d.stateDir, "hostapd-"+d.iface+".deny")
}

func (d *HostapdDriver) writeDenyFileLocked() error {
	macs := make([]string, 0, len(d.deny))
	for m := range d.deny {
		macs = append(macs, m)
	}
	sort.Strings(macs)

	content := strings.Join(macs, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.MkdirAll(d.stateDir, 0750); err != nil {
		return err
	}
	return utils.WriteFileAtomic(d.denyFile(), []byte(content), 0600)
}
