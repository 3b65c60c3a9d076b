package networking

import (
	"fmt"

	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

type IpRule struct {
	*netlink.Rule
	nl Netlink
}

func (r *IpRule) String() string {
	iif := "all"
	if r.IifName != "" {
		iif = r.IifName
	}
	mask := uint32(0)
	if r.Mask != nil {
		mask = *r.Mask
	}
	return fmt.Sprintf("rule %d: from all iif %s fwmark %#x/%#x -> table %d",
		r.Priority, iif, r.Mark, mask, r.Table)
}

// BuildUnmarkedRule builds the rule sending unmarked traffic arriving on
// iif through the main routing table.
func BuildUnmarkedRule(nl Netlink, iif string, priority int) *IpRule {
	ipr := netlink.NewRule()

	mask := uint32(0xffff)
	ipr.Family = netlink.FAMILY_V4
	ipr.Table = unix.RT_TABLE_MAIN
	ipr.Mark = 0
	ipr.Mask = &mask
	ipr.IifName = iif
	ipr.Priority = priority
	return &IpRule{Rule: ipr, nl: nl}
}

func (ipr *IpRule) Add() error {
	log.Debugf("Adding IP rule [%v]", ipr)
	if err := ipr.nl.RuleAdd(ipr.Rule); err != nil {
		log.Warnf("Failed to add IP rule [%v]: %v", ipr, err)
		return err
	}
	return nil
}

func (ipr *IpRule) AddIfNotExists() (bool, error) {
	exists, err := ipr.IsExists()
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := ipr.Add(); err != nil {
		return false, err
	}
	return true, nil
}

func (ipr *IpRule) IsExists() (bool, error) {
	filtered, err := ipr.nl.RuleListFiltered(ipr.Family, ipr.Rule,
		netlink.RT_FILTER_TABLE|netlink.RT_FILTER_PRIORITY|netlink.RT_FILTER_IIF)
	if err != nil {
		log.Warnf("Checking if IP rule exists [%v] is failed: %v", ipr, err)
		return false, err
	}
	if len(filtered) > 0 {
		log.Debugf("Checking if IP rule exists [%v]: YES", ipr)
		return true, nil
	}

	log.Debugf("Checking if IP rule exists [%v]: NO", ipr)
	return false, nil
}

func (ipr *IpRule) Del() error {
	log.Debugf("Deleting IP rule [%v]", ipr)
	if err := ipr.nl.RuleDel(ipr.Rule); err != nil {
		log.Warnf("Failed to delete IP rule [%v]: %v", ipr, err)
		return err
	}
	return nil
}

func (ipr *IpRule) DelIfExists() (bool, error) {
	exists, err := ipr.IsExists()
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := ipr.Del(); err != nil {
		return false, err
	}
	return true, nil
}
