package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/domain"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/networking"
)

func CreateUndoCommand() *UndoCommand {
	gc := &UndoCommand{
		fs: flag.NewFlagSet("undo-nat", flag.ExitOnError),
	}
	gc.fs.StringVar(&gc.upstream, "upstream", "", "Upstream interface (default: upstream_interface from the configuration)")
	return gc
}

// UndoCommand removes the forwarding and masquerading rules left behind by
// a hotspot that did not shut down cleanly.
type UndoCommand struct {
	fs       *flag.FlagSet
	ctx      *AppContext
	cfg      *config.Config
	upstream string
	nat      domain.NatController
}

func (g *UndoCommand) Name() string {
	return g.fs.Name()
}

func (g *UndoCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	if g.upstream == "" {
		g.upstream = g.cfg.General.UpstreamInterface
	}
	if g.upstream == "" {
		return fmt.Errorf("upstream interface is not configured, pass -upstream")
	}

	if g.nat == nil {
		nat, err := networking.NewSystemNatManager()
		if err != nil {
			return err
		}
		g.nat = nat
	}
	return nil
}

func (g *UndoCommand) Run() error {
	log.Infof("Removing NAT rules between %s and %s...", g.cfg.General.Interface, g.upstream)

	if !g.nat.SetNat(false, g.cfg.General.Interface, g.upstream) {
		return fmt.Errorf("failed to remove NAT rules")
	}

	log.Infof("Undo NAT completed successfully")
	return nil
}
