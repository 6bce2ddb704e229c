package models

import "fmt"

// Kind identifies a concrete termination type. Values are lowercase
// object-type names so inventory files stay portable.
type Kind string

const (
	KindConsolePort        Kind = "consoleport"
	KindConsoleServerPort  Kind = "consoleserverport"
	KindPowerPort          Kind = "powerport"
	KindPowerOutlet        Kind = "poweroutlet"
	KindInterface          Kind = "interface"
	KindFrontPort          Kind = "frontport"
	KindRearPort           Kind = "rearport"
	KindPowerFeed          Kind = "powerfeed"
	KindCircuitTermination Kind = "circuittermination"
)

// AllKinds lists every termination kind, in display order.
var AllKinds = []Kind{
	KindConsolePort,
	KindConsoleServerPort,
	KindPowerPort,
	KindPowerOutlet,
	KindInterface,
	KindFrontPort,
	KindRearPort,
	KindPowerFeed,
	KindCircuitTermination,
}

// ParseKind validates a kind string from user input or inventory files.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	for _, known := range AllKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown termination kind %q", s)
}

// TerminationRef is a tagged reference to one termination object.
type TerminationRef struct {
	Kind Kind  `yaml:"kind"`
	ID   int64 `yaml:"id"`
}

func (r TerminationRef) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// IsZero reports whether the reference is unset.
func (r TerminationRef) IsZero() bool {
	return r.Kind == "" && r.ID == 0
}

// compatibleKinds declares, per kind, the set of kinds it may be cabled
// to. Pass-through ports accept anything that carries a signal;
// power and console domains never mix with network terminations.
var compatibleKinds = map[Kind][]Kind{
	KindConsolePort:        {KindConsoleServerPort, KindFrontPort, KindRearPort},
	KindConsoleServerPort:  {KindConsolePort, KindFrontPort, KindRearPort},
	KindPowerPort:          {KindPowerOutlet, KindPowerFeed},
	KindPowerOutlet:        {KindPowerPort},
	KindInterface:          {KindInterface, KindCircuitTermination, KindFrontPort, KindRearPort},
	KindFrontPort:          {KindConsolePort, KindConsoleServerPort, KindInterface, KindFrontPort, KindRearPort, KindCircuitTermination},
	KindRearPort:           {KindConsolePort, KindConsoleServerPort, KindInterface, KindFrontPort, KindRearPort, KindCircuitTermination},
	KindPowerFeed:          {KindPowerPort},
	KindCircuitTermination: {KindInterface, KindFrontPort, KindRearPort, KindCircuitTermination},
}

// IsCompatible reports whether a cable may legally connect the two
// kinds. The relation is symmetric.
func IsCompatible(a, b Kind) bool {
	for _, k := range compatibleKinds[a] {
		if k == b {
			return true
		}
	}
	return false
}

// IsPassThrough reports whether the kind relays a connection without
// being a logical endpoint.
func IsPassThrough(k Kind) bool {
	return k == KindFrontPort || k == KindRearPort
}

// IsConnectable reports whether the kind can be the logical terminus of
// an end-to-end path and carries cached endpoint fields.
func IsConnectable(k Kind) bool {
	switch k {
	case KindConsolePort, KindConsoleServerPort, KindPowerPort, KindPowerOutlet, KindInterface:
		return true
	}
	return false
}

// nonConnectableInterfaceTypes are interface types that exist only in
// software and can never terminate a physical cable.
var nonConnectableInterfaceTypes = map[string]bool{
	"virtual": true,
	"bridge":  true,
	"lag":     true,
}

// InterfaceTypeConnectable reports whether an interface of the given
// type may be cabled. An empty type is treated as a physical port.
func InterfaceTypeConnectable(ifaceType string) bool {
	return !nonConnectableInterfaceTypes[ifaceType]
}
