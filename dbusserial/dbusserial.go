// Package dbusserial reads the device serial number from the inventory
// manager over D-Bus, the same property the original PAM module consulted
// via xyz.openbmc_project.Inventory.Decorator.Asset.
package dbusserial

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	inventoryDest = "xyz.openbmc_project.Inventory.Manager"
	systemPath    = "/xyz/openbmc_project/inventory/system"
	assetIface    = "xyz.openbmc_project.Inventory.Decorator.Asset"
	serialProp    = "SerialNumber"
)

// Reader fetches the SerialNumber property of the system inventory object
// over the system bus.
type Reader struct {
	conn *dbus.Conn
}

// NewReader connects to the system bus and returns a Reader.
func NewReader() (*Reader, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("dbusserial: connect system bus: %w", err)
	}
	return &Reader{conn: conn}, nil
}

// Close releases the underlying bus connection.
func (r *Reader) Close() error {
	return r.conn.Close()
}

// ReadSerialNumber returns the device's serial number property, which may
// be empty if the inventory object has never been programmed.
func (r *Reader) ReadSerialNumber() (string, error) {
	obj := r.conn.Object(inventoryDest, dbus.ObjectPath(systemPath))
	variant, err := obj.GetProperty(assetIface + "." + serialProp)
	if err != nil {
		return "", fmt.Errorf("dbusserial: get %s: %w", serialProp, err)
	}
	serial, ok := variant.Value().(string)
	if !ok {
		return "", fmt.Errorf("dbusserial: %s property was not a string", serialProp)
	}
	return serial, nil
}
