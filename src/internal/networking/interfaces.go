package networking

import (
	"net"
	"regexp"

	"github.com/vishvananda/netlink"
)

var interfaceNameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.\-@]{1,15}$`)

// IsValidInterfaceName checks a Linux interface name (IFNAMSIZ-1 characters,
// no whitespace, slashes or shell metacharacters).
func IsValidInterfaceName(name string) bool {
	return interfaceNameRegexp.MatchString(name) && name != "." && name != ".."
}

type Interface struct {
	netlink.Link
}

func GetInterface(nl Netlink, interfaceName string) (*Interface, error) {
	link, err := nl.LinkByName(interfaceName)
	if err != nil {
		return nil, err
	}
	return &Interface{link}, nil
}

func GetInterfaceList(nl Netlink) ([]Interface, error) {
	links, err := nl.LinkList()
	if err != nil {
		return nil, err
	}
	var interfaces []Interface
	for _, link := range links {
		interfaces = append(interfaces, Interface{link})
	}
	return interfaces, nil
}

func (iface *Interface) Name() string {
	return iface.Attrs().Name
}

func (iface *Interface) IsUp() bool {
	return iface.Attrs().Flags&net.FlagUp != 0
}

func (iface *Interface) IsLoopback() bool {
	return iface.Attrs().Flags&net.FlagLoopback != 0
}
