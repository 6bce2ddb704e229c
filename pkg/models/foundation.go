package models

import "strings"

// Site is a physical location holding racks and devices.
type Site struct {
	ID     int64
	Name   string
	Slug   string
	Status string
}

// Device is a piece of hardware whose ports terminate cables. Patch
// panels are devices too; their ports are front/rear pairs.
type Device struct {
	ID     int64
	SiteID int64
	Name   string
	Role   string
}

// Slug generates a slug from the device name.
func (d *Device) Slug() string {
	return slugify(d.Name)
}

// slugify converts a string to a slug
func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	return s
}
