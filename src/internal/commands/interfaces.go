package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/domain"
	"github.com/maksimkurb/keen-softap/src/internal/networking"
)

func CreateInterfacesCommand() *InterfacesCommand {
	gc := &InterfacesCommand{
		fs:  flag.NewFlagSet("interfaces", flag.ExitOnError),
		out: os.Stdout,
	}
	return gc
}

// InterfacesCommand lists network interfaces and their addresses. It does
// not need a configuration file.
type InterfacesCommand struct {
	fs    *flag.FlagSet
	ctx   *AppContext
	out   io.Writer
	probe *systemProbe
	addrs domain.InterfaceInspector
}

func (g *InterfacesCommand) Name() string {
	return g.fs.Name()
}

func (g *InterfacesCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if g.probe == nil {
		g.probe = newSystemProbe()
	}
	if g.addrs == nil {
		g.addrs = networking.NewInterfaceManager(g.probe.netlink)
	}
	return nil
}

func (g *InterfacesCommand) Run() error {
	interfaces, err := networking.GetInterfaceList(g.probe.netlink)
	if err != nil {
		return fmt.Errorf("failed to get interfaces: %v", err)
	}

	for _, iface := range interfaces {
		if iface.IsLoopback() {
			continue
		}
		v4, v6, err := g.addrs.FetchAddresses(iface.Name())
		if err != nil {
			return fmt.Errorf("failed to get addresses of %s: %v", iface.Name(), err)
		}

		state := "down"
		if iface.IsUp() {
			state = "up"
		}
		kind := ""
		if info, err := g.probe.radio.Lookup(iface.Name()); err == nil {
			kind = " wireless " + info.PHYName()
		}

		fmt.Fprintf(g.out, "%s (%s%s)\n", iface.Name(), state, kind)
		fmt.Fprint(g.out, formatAddresses(v4, v6))
	}
	return nil
}

func formatAddresses(v4, v6 []address.Address) string {
	var b strings.Builder
	for _, a := range append(append([]address.Address{}, v4...), v6...) {
		fmt.Fprintf(&b, "  %s\n", a.CIDR())
	}
	return b.String()
}
