package networking

import (
	"strings"

	"github.com/coreos/go-iptables/iptables"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
	"github.com/maksimkurb/keen-softap/src/internal/log"
)

const (
	// NatRulePriority is the priority of the rule routing hotspot traffic
	// through the main table.
	NatRulePriority = 18000

	filterTable      = "filter"
	natTable         = "nat"
	forwardChain     = "FORWARD"
	postroutingChain = "POSTROUTING"
)

// Iptables is the subset of *iptables.IPTables used by NatManager.
type Iptables interface {
	ClearChain(table, chain string) error
	ChangePolicy(table, chain, target string) error
	AppendUnique(table, chain string, rulespec ...string) error
	DeleteIfExists(table, chain string, rulespec ...string) error
}

// NatManager shares the upstream connection with hotspot clients.
type NatManager struct {
	nl     Netlink
	ipt    Iptables
	sysctl Sysctl
}

func NewNatManager(nl Netlink, ipt Iptables, sysctl Sysctl) *NatManager {
	return &NatManager{nl: nl, ipt: ipt, sysctl: sysctl}
}

// NewSystemNatManager creates a NatManager operating on the running host.
func NewSystemNatManager() (*NatManager, error) {
	ipt, err := iptables.NewWithProtocol(iptables.ProtocolIPv4)
	if err != nil {
		return nil, errors.NewNATError("failed to initialize iptables", err)
	}
	return NewNatManager(SystemNetlink{}, ipt, NewProcSysctl()), nil
}

// SetNat enables or disables forwarding and masquerading from inInterface to
// outInterface. It returns false without touching the system if the names
// are invalid or equal. Failures of the individual steps are logged and do
// not change the result.
func (n *NatManager) SetNat(enable bool, inInterface, outInterface string) bool {
	if !IsValidInterfaceName(inInterface) || !IsValidInterfaceName(outInterface) {
		log.Warnf("NAT: invalid interface names in=%q out=%q", inInterface, outInterface)
		return false
	}
	if inInterface == outInterface {
		log.Warnf("NAT: inbound and outbound interface are both %s", inInterface)
		return false
	}

	log.Infof("NAT: %s forwarding %s -> %s", enableVerb(enable), inInterface, outInterface)
	n.setForwarding(enable)
	n.setRule(enable, inInterface)
	n.setFirewall(enable, outInterface)
	return true
}

// ForwardingEnabled reports whether IPv4 forwarding is on.
func (n *NatManager) ForwardingEnabled() (bool, error) {
	v, err := n.sysctl.Read(SysctlIPv4Forward)
	if err != nil {
		return false, errors.NewNATError("failed to read ip_forward", err)
	}
	return strings.TrimSpace(v) == "1", nil
}

func (n *NatManager) setForwarding(enable bool) {
	value := "0"
	if enable {
		value = "1"
	}
	for _, key := range []string{SysctlIPv4Forward, SysctlIPv6Forward} {
		if err := n.sysctl.Write(key, value); err != nil {
			log.Warnf("NAT: failed to write %s=%s: %v", key, value, err)
		}
	}
}

func (n *NatManager) setRule(enable bool, inInterface string) {
	rule := BuildUnmarkedRule(n.nl, inInterface, NatRulePriority)

	var err error
	if enable {
		_, err = rule.AddIfNotExists()
	} else {
		_, err = rule.DelIfExists()
	}
	if err != nil {
		log.Warnf("NAT: failed to update rule [%v]: %v", rule, err)
	}

	if err := n.sysctl.Write(SysctlRouteFlush, "1"); err != nil {
		log.Warnf("NAT: failed to flush route cache: %v", err)
	}
}

func (n *NatManager) setFirewall(enable bool, outInterface string) {
	if err := n.ipt.ClearChain(filterTable, forwardChain); err != nil {
		log.Warnf("NAT: failed to flush %s chain: %v", forwardChain, err)
	}

	policy := "DROP"
	if enable {
		policy = "ACCEPT"
	}
	if err := n.ipt.ChangePolicy(filterTable, forwardChain, policy); err != nil {
		log.Warnf("NAT: failed to set %s policy to %s: %v", forwardChain, policy, err)
	}

	masquerade := []string{"-o", outInterface, "-j", "MASQUERADE"}
	var err error
	if enable {
		err = n.ipt.AppendUnique(natTable, postroutingChain, masquerade...)
	} else {
		err = n.ipt.DeleteIfExists(natTable, postroutingChain, masquerade...)
	}
	if err != nil {
		log.Warnf("NAT: failed to update MASQUERADE rule on %s: %v", outInterface, err)
	}
}

func enableVerb(enable bool) string {
	if enable {
		return "enabling"
	}
	return "disabling"
}
