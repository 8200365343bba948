// Package catalog provides the device and vessel lookup tables.
//
// Both catalogs are static configuration: adding a graft device or an
// anatomical vessel is a TOML change, not a code change. Default catalogs
// are embedded in the binary and can be overridden with external files at
// startup.
package catalog

import (
	_ "embed"
	"os"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/vesselworks/graftplan/pkg/errors"
)

//go:embed devices.toml
var defaultDevices []byte

//go:embed vessels.toml
var defaultVessels []byte

// Device describes one graft device geometry available for planning.
type Device struct {
	Key        string  `toml:"key" json:"key"`                 // stable lookup key, e.g. "24x145"
	Name       string  `toml:"name" json:"name"`               // human-readable device identifier
	DiameterMM float64 `toml:"diameter_mm" json:"diameter_mm"` // outer diameter
	LengthMM   float64 `toml:"length_mm" json:"length_mm"`     // covered length, proximal to distal
}

// Vessel describes one target vessel a fenestration can serve.
type Vessel struct {
	Key        string `toml:"key" json:"key"`                 // stable lookup key, e.g. "sma"
	Name       string `toml:"name" json:"name"`               // full anatomical name
	ShortLabel string `toml:"short_label" json:"short_label"` // canonical short code drawn on templates
	Color      string `toml:"color" json:"color"`             // display color as #rrggbb
}

type deviceFile struct {
	Devices []Device `toml:"device"`
}

type vesselFile struct {
	Vessels []Vessel `toml:"vessel"`
}

// Catalog holds the parsed device and vessel tables with key lookup.
type Catalog struct {
	devices     []Device
	vessels     []Vessel
	deviceByKey map[string]Device
	vesselByKey map[string]Vessel
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := parse(defaultDevices, defaultVessels)
	if err != nil {
		// The embedded catalogs ship with the binary; failing to parse
		// them is a build defect, not a runtime condition.
		panic(err)
	}
	return c
})

// Default returns the catalog built from the embedded TOML tables.
func Default() *Catalog {
	return defaultCatalog()
}

// Load reads catalogs from the given TOML files. An empty path falls back
// to the corresponding embedded default, so either table can be overridden
// independently.
func Load(devicesPath, vesselsPath string) (*Catalog, error) {
	devData := defaultDevices
	vesData := defaultVessels

	if devicesPath != "" {
		b, err := os.ReadFile(devicesPath)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read device catalog %s", devicesPath)
		}
		devData = b
	}
	if vesselsPath != "" {
		b, err := os.ReadFile(vesselsPath)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read vessel catalog %s", vesselsPath)
		}
		vesData = b
	}

	return parse(devData, vesData)
}

func parse(devData, vesData []byte) (*Catalog, error) {
	var df deviceFile
	if err := toml.Unmarshal(devData, &df); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse device catalog")
	}
	var vf vesselFile
	if err := toml.Unmarshal(vesData, &vf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse vessel catalog")
	}

	c := &Catalog{
		devices:     df.Devices,
		vessels:     vf.Vessels,
		deviceByKey: make(map[string]Device, len(df.Devices)),
		vesselByKey: make(map[string]Vessel, len(vf.Vessels)),
	}

	for _, d := range df.Devices {
		if d.Key == "" || d.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "device entry missing key or name")
		}
		if d.DiameterMM <= 0 || d.LengthMM <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "device %s has non-positive dimensions", d.Key)
		}
		if _, dup := c.deviceByKey[d.Key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate device key %q", d.Key)
		}
		c.deviceByKey[d.Key] = d
	}
	for _, v := range vf.Vessels {
		if v.Key == "" || v.Name == "" || v.ShortLabel == "" || v.Color == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "vessel entry %q missing required fields", v.Key)
		}
		if _, dup := c.vesselByKey[v.Key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate vessel key %q", v.Key)
		}
		c.vesselByKey[v.Key] = v
	}

	return c, nil
}

// Devices returns all devices in catalog order.
func (c *Catalog) Devices() []Device {
	out := make([]Device, len(c.devices))
	copy(out, c.devices)
	return out
}

// Vessels returns all vessels in catalog order.
func (c *Catalog) Vessels() []Vessel {
	out := make([]Vessel, len(c.vessels))
	copy(out, c.vessels)
	return out
}

// Device looks up a device by key.
func (c *Catalog) Device(key string) (Device, error) {
	d, ok := c.deviceByKey[key]
	if !ok {
		return Device{}, errors.New(errors.ErrCodeInvalidDevice, "unknown device %q", key)
	}
	return d, nil
}

// Vessel looks up a vessel by key.
func (c *Catalog) Vessel(key string) (Vessel, error) {
	v, ok := c.vesselByKey[key]
	if !ok {
		return Vessel{}, errors.New(errors.ErrCodeInvalidVessel, "unknown vessel %q", key)
	}
	return v, nil
}
