package commands

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/keen-softap/src/internal/apconfig"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/dhcpd"
	"github.com/maksimkurb/keen-softap/src/internal/hal"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/networking"
)

func CreateSelfCheckCommand() *SelfCheckCommand {
	gc := &SelfCheckCommand{
		fs:    flag.NewFlagSet("self-check", flag.ExitOnError),
		probe: newSystemProbe(),
	}
	return gc
}

type SelfCheckCommand struct {
	fs    *flag.FlagSet
	ctx   *AppContext
	cfg   *config.Config
	probe *systemProbe
}

// checkResult is the outcome of one self-check item.
type checkResult struct {
	Type        string
	Description string
	OK          bool
	Message     string
}

func (g *SelfCheckCommand) Name() string {
	return g.fs.Name()
}

func (g *SelfCheckCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *SelfCheckCommand) Run() error {
	log.Infof("Running self-check...")
	log.Infof("---------------- Configuration START -----------------")

	if cfg, err := g.cfg.SerializeConfig(); err != nil {
		log.Errorf("Failed to serialize config: %v", err)
		return err
	} else {
		if err := binary.Write(os.Stdout, binary.LittleEndian, cfg.Bytes()); err != nil {
			log.Errorf("Failed to output config: %v", err)
			return err
		}
	}

	log.Infof("----------------- Configuration END ------------------")

	hasFailures := false
	for _, r := range g.runChecks() {
		if r.OK {
			log.Infof("[%s] %s: %s", r.Type, r.Description, r.Message)
		} else {
			log.Errorf("[%s] %s: %s", r.Type, r.Description, r.Message)
			hasFailures = true
		}
	}

	if hasFailures {
		log.Errorf("Self-check completed with failures")
		return fmt.Errorf("self-check failed")
	}

	log.Infof("Self-check completed successfully")
	return nil
}

func (g *SelfCheckCommand) runChecks() []checkResult {
	general := g.cfg.General
	var results []checkResult

	results = append(results, g.checkLink("interface", "Hotspot interface", general.Interface))
	if general.UpstreamInterface != "" {
		results = append(results, g.checkLink("interface", "Upstream interface", general.UpstreamInterface))
	}

	results = append(results,
		g.checkBinary("hostapd", g.ctx.HostapdBinary, hal.DefaultHostapdBinary),
		g.checkBinary("dnsmasq", g.ctx.DnsmasqBinary, dhcpd.DefaultDnsmasqBinary),
		g.checkBinary("iw", g.ctx.IwBinary, hal.DefaultIwBinary),
	)

	results = append(results, g.checkRadio()...)

	if general.EnableNAT {
		results = append(results, g.checkNat())
	}
	return results
}

func (g *SelfCheckCommand) checkLink(typ, description, name string) checkResult {
	r := checkResult{Type: typ, Description: description}
	iface, err := networking.GetInterface(g.probe.netlink, name)
	if err != nil {
		r.Message = fmt.Sprintf("Interface %s does NOT exist: %v", name, err)
		return r
	}
	r.OK = true
	if iface.IsUp() {
		r.Message = fmt.Sprintf("Interface %s exists and is up", name)
	} else {
		r.Message = fmt.Sprintf("Interface %s exists and is down", name)
	}
	return r
}

func (g *SelfCheckCommand) checkBinary(name, override, fallback string) checkResult {
	r := checkResult{Type: "binary", Description: name}
	bin := override
	if bin == "" {
		bin = fallback
	}
	path, err := g.probe.lookPath(bin)
	if err != nil {
		r.Message = fmt.Sprintf("%s is NOT found: %v", bin, err)
		return r
	}
	r.OK = true
	r.Message = fmt.Sprintf("found at %s", path)
	return r
}

// checkRadio verifies the interface is a wireless device and that the
// configured channel is supported by it.
func (g *SelfCheckCommand) checkRadio() []checkResult {
	radio := checkResult{Type: "radio", Description: "Wireless device"}
	info, table, err := g.probe.readChannelsTable(g.ctx.IwBinary, g.cfg.General.Interface)
	if err != nil {
		radio.Message = fmt.Sprintf("Failed to query %s: %v", g.cfg.General.Interface, err)
		return []checkResult{radio}
	}
	radio.OK = true
	radio.Message = fmt.Sprintf("%s is on %s (%s)", g.cfg.General.Interface, info.PHYName(), info.MAC)

	// An unsupported channel is not a failure: it is corrected at start.
	channel := checkResult{Type: "radio", Description: "Hotspot channel", OK: true}
	hotspot := *g.cfg.Hotspot
	if apconfig.ValidateBandChannel(&hotspot, table) {
		channel.Message = fmt.Sprintf("Channel %d in %s is NOT supported, channel %d in %s will be used",
			g.cfg.Hotspot.Channel, g.cfg.Hotspot.Band, hotspot.Channel, hotspot.Band)
	} else {
		channel.Message = fmt.Sprintf("Channel %d in %s is supported", hotspot.Channel, hotspot.Band)
	}
	return []checkResult{radio, channel}
}

func (g *SelfCheckCommand) checkNat() checkResult {
	r := checkResult{Type: "nat", Description: "IPv4 forwarding"}
	enabled, err := g.probe.forwarding()
	switch {
	case err != nil:
		r.Message = fmt.Sprintf("Error checking: %v", err)
	case enabled:
		r.OK = true
		r.Message = "enabled"
	default:
		// The hotspot enables forwarding itself when it starts.
		r.OK = true
		r.Message = "disabled, will be enabled when the hotspot starts"
	}
	return r
}
