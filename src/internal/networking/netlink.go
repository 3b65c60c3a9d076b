package networking

import "github.com/vishvananda/netlink"

// Netlink is the subset of the netlink API used by this package.
type Netlink interface {
	LinkByName(name string) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	AddrAdd(link netlink.Link, addr *netlink.Addr) error
	AddrDel(link netlink.Link, addr *netlink.Addr) error
	RuleAdd(rule *netlink.Rule) error
	RuleDel(rule *netlink.Rule) error
	RuleListFiltered(family int, filter *netlink.Rule, filterMask uint64) ([]netlink.Rule, error)
}

// SystemNetlink talks to the kernel of the running host.
type SystemNetlink struct{}

func (SystemNetlink) LinkByName(name string) (netlink.Link, error) { return netlink.LinkByName(name) }
func (SystemNetlink) LinkList() ([]netlink.Link, error) { return netlink.LinkList() }

func (SystemNetlink) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

func (SystemNetlink) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	return netlink.AddrAdd(link, addr)
}

func (SystemNetlink) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	return netlink.AddrDel(link, addr)
}

func (SystemNetlink) RuleAdd(rule *netlink.Rule) error { return netlink.RuleAdd(rule) }
func (SystemNetlink) RuleDel(rule *netlink.Rule) error { return netlink.RuleDel(rule) }

func (SystemNetlink) RuleListFiltered(family int, filter *netlink.Rule, filterMask uint64) ([]netlink.Rule, error) {
	return netlink.RuleListFiltered(family, filter, filterMask)
}
