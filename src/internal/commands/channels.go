package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/maksimkurb/keen-softap/src/internal/config"
)

func CreateChannelsCommand() *ChannelsCommand {
	return &ChannelsCommand{
		fs:    flag.NewFlagSet("channels", flag.ExitOnError),
		probe: newSystemProbe(),
		out:   os.Stdout,
	}
}

// ChannelsCommand prints the channels the hotspot radio supports per band.
type ChannelsCommand struct {
	fs    *flag.FlagSet
	ctx   *AppContext
	cfg   *config.Config
	probe *systemProbe
	out   io.Writer
}

func (c *ChannelsCommand) Name() string {
	return c.fs.Name()
}

func (c *ChannelsCommand) Init(args []string, ctx *AppContext) error {
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

func (c *ChannelsCommand) Run() error {
	info, table, err := c.probe.readChannelsTable(c.ctx.IwBinary, c.cfg.General.Interface)
	if err != nil {
		return fmt.Errorf("failed to read channels: %w", err)
	}

	fmt.Fprintf(c.out, "Interface %s (%s)\n", c.cfg.General.Interface, info.PHYName())
	fmt.Fprint(c.out, formatChannelsTable(table))
	return nil
}

func formatChannelsTable(table config.ChannelsTable) string {
	bands := make([]string, 0, len(table))
	for band := range table {
		bands = append(bands, string(band))
	}
	sort.Strings(bands)

	var b strings.Builder
	if len(bands) == 0 {
		b.WriteString("  no usable channels\n")
	}
	for _, band := range bands {
		channels := table[config.Band(band)]
		parts := make([]string, len(channels))
		for i, ch := range channels {
			parts[i] = fmt.Sprint(ch)
		}
		fmt.Fprintf(&b, "  %-7s %s\n", band+":", strings.Join(parts, " "))
	}
	return b.String()
}
