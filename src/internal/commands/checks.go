package commands

import (
	"fmt"
	"os/exec"

	"github.com/maksimkurb/keen-softap/src/internal/apconfig"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/hal"
	"github.com/maksimkurb/keen-softap/src/internal/networking"
)

// systemProbe is the access to the host used by read-only commands.
type systemProbe struct {
	netlink    networking.Netlink
	radio      hal.Radio
	runner     hal.CommandRunner
	lookPath   func(file string) (string, error)
	forwarding func() (bool, error)
}

func newSystemProbe() *systemProbe {
	return &systemProbe{
		netlink:  networking.SystemNetlink{},
		radio:    hal.NL80211Radio{},
		runner:   hal.ExecRunner{},
		lookPath: exec.LookPath,
		forwarding: func() (bool, error) {
			return networking.NewNatManager(networking.SystemNetlink{}, nil, networking.NewProcSysctl()).ForwardingEnabled()
		},
	}
}

// readChannelsTable asks iw for the frequencies of the radio behind
// interfaceName.
func (p *systemProbe) readChannelsTable(iwBinary, interfaceName string) (hal.RadioInfo, config.ChannelsTable, error) {
	if iwBinary == "" {
		iwBinary = hal.DefaultIwBinary
	}

	info, err := p.radio.Lookup(interfaceName)
	if err != nil {
		return hal.RadioInfo{}, nil, err
	}

	out, err := p.runner.Output(iwBinary, "phy", info.PHYName(), "info")
	if err != nil {
		return info, nil, fmt.Errorf("%s phy %s info: %w", iwBinary, info.PHYName(), err)
	}

	return info, apconfig.BuildChannelsTable(hal.ParseIwFrequencies(out)), nil
}
