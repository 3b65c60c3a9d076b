package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/keen-softap/src/internal/api"
	"github.com/maksimkurb/keen-softap/src/internal/commands"
	"github.com/maksimkurb/keen-softap/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{
		Version: api.VersionInfo{Version: version, Commit: commit, Date: date},
	}

	flag.StringVar(&ctx.ConfigPath, "config", "/opt/etc/keen-softap/keen-softap.conf", "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")
	flag.StringVar(&ctx.HostapdBinary, "hostapd", "", "Path to hostapd (default: looked up in PATH)")
	flag.StringVar(&ctx.DnsmasqBinary, "dnsmasq", "", "Path to dnsmasq (default: looked up in PATH)")
	flag.StringVar(&ctx.IwBinary, "iw", "", "Path to iw (default: looked up in PATH)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Keenetic SoftAP Hotspot Manager\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  service                 Run as a service/daemon (hotspot state machine and API server)\n")
		fmt.Fprintf(os.Stderr, "  self-check              Run self-check\n")
		fmt.Fprintf(os.Stderr, "  channels                Show channels supported by the hotspot radio\n")
		fmt.Fprintf(os.Stderr, "  leases                  Show DHCP leases of hotspot clients\n")
		fmt.Fprintf(os.Stderr, "  interfaces              Get available interfaces list\n")
		fmt.Fprintf(os.Stderr, "  undo-nat                Remove NAT rules left by the hotspot\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	cmds := []commands.Runner{
		commands.CreateServiceCommand(),
		commands.CreateSelfCheckCommand(),
		commands.CreateChannelsCommand(),
		commands.CreateLeasesCommand(),
		commands.CreateInterfacesCommand(),
		commands.CreateUndoCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
