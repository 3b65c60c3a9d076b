package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/dhcpd"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

func CreateLeasesCommand() *LeasesCommand {
	return &LeasesCommand{
		fs:  flag.NewFlagSet("leases", flag.ExitOnError),
		out: os.Stdout,
	}
}

// LeasesCommand prints the DHCP leases handed out to hotspot clients.
type LeasesCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
	out io.Writer
}

func (c *LeasesCommand) Name() string {
	return c.fs.Name()
}

func (c *LeasesCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *LeasesCommand) Run() error {
	server := dhcpd.NewDnsmasq(c.ctx.DnsmasqBinary, c.cfg.General.StateDir)
	lines, err := server.LeaseLines()
	if err != nil {
		return fmt.Errorf("failed to read leases: %w", err)
	}

	fmt.Fprint(c.out, formatLeases(dhcpd.ParseLeases(lines)))
	return nil
}

func formatLeases(leases map[string]models.StationInfo) string {
	if len(leases) == 0 {
		return "No leases\n"
	}

	stations := make([]models.StationInfo, 0, len(leases))
	for _, st := range leases {
		stations = append(stations, st)
	}
	sort.Slice(stations, func(i, j int) bool {
		return stations[i].MAC.String() < stations[j].MAC.String()
	})

	out := fmt.Sprintf("%-17s  %-39s  %s\n", "MAC", "ADDRESS", "NAME")
	for _, st := range stations {
		out += fmt.Sprintf("%-17s  %-39s  %s\n", st.MAC, st.IPAddress, st.DeviceName)
	}
	return out
}
