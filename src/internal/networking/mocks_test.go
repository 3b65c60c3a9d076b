package networking

import (
	"errors"
	"net"

	"github.com/vishvananda/netlink"
)

// Mock types for testing

type mockNetlinkLink struct {
	name  string
	up    bool
	index int
	mac   net.HardwareAddr
}

func (m *mockNetlinkLink) Attrs() *netlink.LinkAttrs {
	flags := net.Flags(0)
	if m.up {
		flags |= net.FlagUp
	}
	return &netlink.LinkAttrs{
		Name:         m.name,
		Index:        m.index,
		Flags:        flags,
		HardwareAddr: m.mac,
	}
}

func (m *mockNetlinkLink) Type() string { return "mock" }

type fakeNetlink struct {
	links   []*mockNetlinkLink
	addrs   map[string][]netlink.Addr
	rules   []netlink.Rule
	listErr error

	addrAddCalls int
	addrDelCalls int
	ruleAddCalls int
	ruleDelCalls int
}

func newFakeNetlink(links ...*mockNetlinkLink) *fakeNetlink {
	return &fakeNetlink{links: links, addrs: map[string][]netlink.Addr{}}
}

func (f *fakeNetlink) bind(name, cidr string) {
	ip, n, _ := net.ParseCIDR(cidr)
	n.IP = ip
	f.addrs[name] = append(f.addrs[name], netlink.Addr{IPNet: n})
}

func (f *fakeNetlink) LinkByName(name string) (netlink.Link, error) {
	for _, l := range f.links {
		if l.name == name {
			return l, nil
		}
	}
	return nil, errors.New("Link not found")
}

func (f *fakeNetlink) LinkList() ([]netlink.Link, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []netlink.Link
	for _, l := range f.links {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeNetlink) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	var out []netlink.Addr
	for _, a := range f.addrs[link.Attrs().Name] {
		isV4 := a.IP.To4() != nil
		if family == netlink.FAMILY_V4 && !isV4 || family == netlink.FAMILY_V6 && isV4 {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeNetlink) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	f.addrAddCalls++
	name := link.Attrs().Name
	f.addrs[name] = append(f.addrs[name], *addr)
	return nil
}

func (f *fakeNetlink) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	f.addrDelCalls++
	name := link.Attrs().Name
	kept := f.addrs[name][:0]
	for _, a := range f.addrs[name] {
		if !a.IP.Equal(addr.IP) {
			kept = append(kept, a)
		}
	}
	f.addrs[name] = kept
	return nil
}

func (f *fakeNetlink) RuleAdd(rule *netlink.Rule) error {
	f.ruleAddCalls++
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeNetlink) RuleDel(rule *netlink.Rule) error {
	f.ruleDelCalls++
	kept := f.rules[:0]
	for _, r := range f.rules {
		if r.Priority != rule.Priority || r.IifName != rule.IifName {
			kept = append(kept, r)
		}
	}
	f.rules = kept
	return nil
}

func (f *fakeNetlink) RuleListFiltered(family int, filter *netlink.Rule, filterMask uint64) ([]netlink.Rule, error) {
	var out []netlink.Rule
	for _, r := range f.rules {
		if r.Priority == filter.Priority && r.IifName == filter.IifName && r.Table == filter.Table {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeIptables struct {
	calls []string
	rules map[string]bool
	err   error
}

func newFakeIptables() *fakeIptables {
	return &fakeIptables{rules: map[string]bool{}}
}

func (f *fakeIptables) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeIptables) ClearChain(table, chain string) error {
	return f.record("clear " + table + " " + chain)
}

func (f *fakeIptables) ChangePolicy(table, chain, target string) error {
	return f.record("policy " + table + " " + chain + " " + target)
}

func (f *fakeIptables) AppendUnique(table, chain string, rulespec ...string) error {
	f.rules[key(table, chain, rulespec)] = true
	return f.record("append " + key(table, chain, rulespec))
}

func (f *fakeIptables) DeleteIfExists(table, chain string, rulespec ...string) error {
	delete(f.rules, key(table, chain, rulespec))
	return f.record("delete " + key(table, chain, rulespec))
}

func key(table, chain string, rulespec []string) string {
	s := table + " " + chain
	for _, r := range rulespec {
		s += " " + r
	}
	return s
}

type fakeSysctl struct {
	values map[string]string
	err    error
}

func newFakeSysctl() *fakeSysctl {
	return &fakeSysctl{values: map[string]string{}}
}

func (f *fakeSysctl) Write(key, value string) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	return nil
}

func (f *fakeSysctl) Read(key string) (string, error) {
	return f.values[key], f.err
}
