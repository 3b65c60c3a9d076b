// Package commands implements CLI command handlers for keen-softap.
//
// Each subcommand implements the Runner interface:
//   - Init(): Parse arguments and load configuration
//   - Run(): Execute the command
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - service: Run the hotspot state machine and the HTTP API as a daemon
//   - self-check: Verify interfaces, helper binaries and radio capabilities
//   - channels: Print the channels supported by the hotspot radio
//   - leases: Print DHCP leases of hotspot clients
//   - interfaces: List network interfaces and their addresses
//   - undo-nat: Remove NAT rules left by an unclean shutdown
//
// # Example Usage
//
//	cmd := commands.CreateSelfCheckCommand()
//	ctx := &commands.AppContext{
//	    ConfigPath: "/opt/etc/keen-softap/keen-softap.conf",
//	    Verbose:    true,
//	}
//	if err := cmd.Init(args, ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatal(err)
//	}
package commands
