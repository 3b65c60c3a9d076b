// Package stations tracks the client devices associated with the hotspot
// and the devices it refuses.
//
// A Registry is owned by the state machine goroutine and is not safe for
// concurrent use.
package stations

import (
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/errors"
	"github.com/maksimkurb/keen-softap/src/internal/log"
	"github.com/maksimkurb/keen-softap/src/internal/models"
)

// Driver is the part of hal.Driver the registry talks to.
type Driver interface {
	AddBlock(mac address.MAC) error
	DelBlock(mac address.MAC) error
	Disconnect(mac address.MAC) error
}

// BlockListStore persists the blocklist.
type BlockListStore interface {
	BlockList() []config.BlockedDevice
	SaveBlockList(devices []config.BlockedDevice) error
}

type Registry struct {
	driver   Driver
	store    BlockListStore
	stations map[string]models.StationInfo
}

func NewRegistry(driver Driver, store BlockListStore) *Registry {
	return &Registry{
		driver:   driver,
		store:    store,
		stations: make(map[string]models.StationInfo),
	}
}

// StationJoin records mac with placeholder details. It returns false if the
// station was already known.
func (r *Registry) StationJoin(mac address.MAC) (models.StationInfo, bool) {
	if !mac.IsValid() {
		return models.StationInfo{}, false
	}
	if info, ok := r.stations[mac.String()]; ok {
		return info, false
	}
	info := models.NewJoiningStation(mac)
	r.stations[mac.String()] = info
	log.Infof("Station %s joined (%d connected)", mac, len(r.stations))
	return info, true
}

// StationLeave forgets mac. It returns false if the station was unknown.
func (r *Registry) StationLeave(mac address.MAC) (models.StationInfo, bool) {
	info, ok := r.stations[mac.String()]
	if !ok {
		return models.StationInfo{}, false
	}
	delete(r.stations, mac.String())
	log.Infof("Station %s left (%d connected)", mac, len(r.stations))
	return info, true
}

// Resolve fills in name and IP address of known stations from DHCP leases.
func (r *Registry) Resolve(leases map[string]models.StationInfo) {
	for key, info := range r.stations {
		lease, ok := leases[key]
		if !ok {
			continue
		}
		info.DeviceName = lease.DeviceName
		info.IPAddress = lease.IPAddress
		r.stations[key] = info
	}
}

// Stations returns the connected stations ordered by MAC.
func (r *Registry) Stations() []models.StationInfo {
	out := make([]models.StationInfo, 0, len(r.stations))
	for _, info := range r.stations {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MAC.String() < out[j].MAC.String()
	})
	return out
}

// Sync makes the table match the stations the radio reports as associated.
// It returns the entries it added and the ones it dropped.
func (r *Registry) Sync(live []address.MAC) (joined, left []models.StationInfo) {
	seen := make(map[string]bool, len(live))
	for _, mac := range live {
		if !mac.IsValid() {
			continue
		}
		seen[mac.String()] = true
		if info, added := r.StationJoin(mac); added {
			joined = append(joined, info)
		}
	}
	for _, info := range r.Stations() {
		if seen[info.MAC.String()] {
			continue
		}
		if gone, removed := r.StationLeave(info.MAC); removed {
			left = append(left, gone)
		}
	}
	return joined, left
}

// Clear forgets every connected station. The blocklist is kept.
func (r *Registry) Clear() {
	r.stations = make(map[string]models.StationInfo)
}

// BlockList returns the persisted blocklist.
func (r *Registry) BlockList() []config.BlockedDevice {
	return r.store.BlockList()
}

// AddBlockList persists mac in the blocklist. With apply set the radio is
// told to refuse it as well.
func (r *Registry) AddBlockList(mac address.MAC, deviceName string, apply bool) error {
	if !mac.IsValid() {
		return errors.NewValidationError("invalid MAC address", nil)
	}

	list := r.store.BlockList()
	found := false
	for i := range list {
		if address.ParseMAC(list[i].MAC) == mac {
			list[i].DeviceName = deviceName
			found = true
		}
	}
	if !found {
		if info, ok := r.stations[mac.String()]; ok && deviceName == "" && info.Resolved() {
			deviceName = info.DeviceName
		}
		list = append(list, config.BlockedDevice{MAC: mac.String(), DeviceName: deviceName})
	}
	if err := r.store.SaveBlockList(list); err != nil {
		return err
	}

	if !apply {
		return nil
	}
	if err := r.driver.AddBlock(mac); err != nil {
		return errors.NewDriverError(fmt.Sprintf("failed to block %s", mac), err)
	}
	log.Infof("Blocked %s", mac)
	return nil
}

// DelBlockList removes mac from the blocklist.
func (r *Registry) DelBlockList(mac address.MAC, apply bool) error {
	if !mac.IsValid() {
		return errors.NewValidationError("invalid MAC address", nil)
	}

	list := r.store.BlockList()
	kept := list[:0]
	for _, d := range list {
		if address.ParseMAC(d.MAC) != mac {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(list) {
		return errors.NewValidationError(fmt.Sprintf("%s is not blocked", mac), nil)
	}
	if err := r.store.SaveBlockList(kept); err != nil {
		return err
	}

	if !apply {
		return nil
	}
	if err := r.driver.DelBlock(mac); err != nil {
		return errors.NewDriverError(fmt.Sprintf("failed to unblock %s", mac), err)
	}
	log.Infof("Unblocked %s", mac)
	return nil
}

// EnableAllBlockList pushes the persisted blocklist to the radio. Every
// entry is tried; failures are joined.
func (r *Registry) EnableAllBlockList() error {
	var errs []error
	for _, d := range r.store.BlockList() {
		mac := address.ParseMAC(d.MAC)
		if !mac.IsValid() {
			errs = append(errs, fmt.Errorf("invalid blocklist entry %q", d.MAC))
			continue
		}
		if err := r.driver.AddBlock(mac); err != nil {
			errs = append(errs, fmt.Errorf("block %s: %w", mac, err))
		}
	}
	if err := stderrors.Join(errs...); err != nil {
		return errors.NewDriverError("failed to apply blocklist", err)
	}
	return nil
}

// DisconnectStation kicks mac off the access point.
func (r *Registry) DisconnectStation(mac address.MAC) error {
	if !mac.IsValid() {
		return errors.NewValidationError("invalid MAC address", nil)
	}
	if err := r.driver.Disconnect(mac); err != nil {
		return errors.NewDriverError(fmt.Sprintf("failed to disconnect %s", mac), err)
	}
	return nil
}
