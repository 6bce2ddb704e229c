package models

// SiteConfig represents a site definition loaded from YAML
type SiteConfig struct {
	Name   string `yaml:"name" json:"name"`
	Slug   string `yaml:"slug" json:"slug"`
	Status string `yaml:"status,omitempty" json:"status,omitempty"`
}

// LinkConfig represents a cable connection definition
type LinkConfig struct {
	PeerDevice string   `yaml:"peer_device" json:"peer_device"`
	PeerPort   string   `yaml:"peer_port" json:"peer_port"`
	PeerKind   string   `yaml:"peer_kind,omitempty" json:"peer_kind,omitempty"`
	Status     string   `yaml:"status,omitempty" json:"status,omitempty"`
	CableType  string   `yaml:"cable_type,omitempty" json:"cable_type,omitempty"`
	Label      string   `yaml:"label,omitempty" json:"label,omitempty"`
	Color      string   `yaml:"color,omitempty" json:"color,omitempty"`
	Length     *float64 `yaml:"length,omitempty" json:"length,omitempty"`
	LengthUnit string   `yaml:"length_unit,omitempty" json:"length_unit,omitempty"`
}

// InterfaceConfig represents an interface on a concrete device
type InterfaceConfig struct {
	Name     string      `yaml:"name" json:"name"`
	Type     string      `yaml:"type,omitempty" json:"type,omitempty"`
	MgmtOnly bool        `yaml:"mgmt_only,omitempty" json:"mgmt_only,omitempty"`
	Link     *LinkConfig `yaml:"link,omitempty" json:"link,omitempty"`
}

// ConsolePortConfig represents a console port on a device
type ConsolePortConfig struct {
	Name string      `yaml:"name" json:"name"`
	Link *LinkConfig `yaml:"link,omitempty" json:"link,omitempty"`
}

// ConsoleServerPortConfig represents a console server port on a device
type ConsoleServerPortConfig struct {
	Name string      `yaml:"name" json:"name"`
	Link *LinkConfig `yaml:"link,omitempty" json:"link,omitempty"`
}

// PowerPortConfig represents a power port on a device
type PowerPortConfig struct {
	Name string      `yaml:"name" json:"name"`
	Link *LinkConfig `yaml:"link,omitempty" json:"link,omitempty"`
}

// PowerOutletConfig represents a power outlet on a PDU
type PowerOutletConfig struct {
	Name string      `yaml:"name" json:"name"`
	Link *LinkConfig `yaml:"link,omitempty" json:"link,omitempty"`
}

// RearPortConfig represents a rear port configuration (backbone side)
type RearPortConfig struct {
	Name      string      `yaml:"name" json:"name"`
	Type      string      `yaml:"type,omitempty" json:"type,omitempty"`
	Positions int         `yaml:"positions,omitempty" json:"positions,omitempty"`
	Link      *LinkConfig `yaml:"link,omitempty" json:"link,omitempty"`
}

// FrontPortConfig represents a front port configuration (patch side)
type FrontPortConfig struct {
	Name             string      `yaml:"name" json:"name"`
	Type             string      `yaml:"type,omitempty" json:"type,omitempty"`
	RearPort         string      `yaml:"rear_port" json:"rear_port"`
	RearPortPosition int         `yaml:"rear_port_position,omitempty" json:"rear_port_position,omitempty"`
	Link             *LinkConfig `yaml:"link,omitempty" json:"link,omitempty"`
}

// DeviceConfig represents a device and its ports loaded from YAML
type DeviceConfig struct {
	Name               string                    `yaml:"name" json:"name"`
	SiteSlug           string                    `yaml:"site_slug" json:"site_slug"`
	Role               string                    `yaml:"role,omitempty" json:"role,omitempty"`
	Interfaces         []InterfaceConfig         `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	ConsolePorts       []ConsolePortConfig       `yaml:"console_ports,omitempty" json:"console_ports,omitempty"`
	ConsoleServerPorts []ConsoleServerPortConfig `yaml:"console_server_ports,omitempty" json:"console_server_ports,omitempty"`
	PowerPorts         []PowerPortConfig         `yaml:"power_ports,omitempty" json:"power_ports,omitempty"`
	PowerOutlets       []PowerOutletConfig       `yaml:"power_outlets,omitempty" json:"power_outlets,omitempty"`
	FrontPorts         []FrontPortConfig         `yaml:"front_ports,omitempty" json:"front_ports,omitempty"`
	RearPorts          []RearPortConfig          `yaml:"rear_ports,omitempty" json:"rear_ports,omitempty"`
}

// Slug generates a slug from the device name
func (d *DeviceConfig) Slug() string {
	return slugify(d.Name)
}
