package models

import "fmt"

// ConnectionStatus is the aggregate state of a complete path: the
// weakest cable segment wins. An absent status (nil cache field) means
// no complete path exists.
type ConnectionStatus string

const (
	ConnectionConnected ConnectionStatus = "connected"
	ConnectionPlanned   ConnectionStatus = "planned"
)

// Termination is any object that can be one end of a cable.
type Termination interface {
	// Ref returns the tagged reference identifying this termination.
	Ref() TerminationRef
	// AttachedCable returns the ID of the owning cable, or nil.
	AttachedCable() *int64
}

// EndpointCache holds the denormalized trace result carried by
// connectable terminations. Derived, never authoritative.
type EndpointCache struct {
	ConnectedEndpoint *TerminationRef
	ConnectionStatus  *ConnectionStatus
}

// ConsolePort is a console connection on a device.
type ConsolePort struct {
	ID       int64
	DeviceID int64
	Name     string
	CableID  *int64
	EndpointCache
}

func (p *ConsolePort) Ref() TerminationRef   { return TerminationRef{Kind: KindConsolePort, ID: p.ID} }
func (p *ConsolePort) AttachedCable() *int64 { return p.CableID }

// ConsoleServerPort is one port on a console server.
type ConsoleServerPort struct {
	ID       int64
	DeviceID int64
	Name     string
	CableID  *int64
	EndpointCache
}

func (p *ConsoleServerPort) Ref() TerminationRef {
	return TerminationRef{Kind: KindConsoleServerPort, ID: p.ID}
}
func (p *ConsoleServerPort) AttachedCable() *int64 { return p.CableID }

// PowerPort draws power into a device.
type PowerPort struct {
	ID       int64
	DeviceID int64
	Name     string
	CableID  *int64
	EndpointCache
}

func (p *PowerPort) Ref() TerminationRef   { return TerminationRef{Kind: KindPowerPort, ID: p.ID} }
func (p *PowerPort) AttachedCable() *int64 { return p.CableID }

// PowerOutlet supplies power from a PDU.
type PowerOutlet struct {
	ID       int64
	DeviceID int64
	Name     string
	CableID  *int64
	EndpointCache
}

func (p *PowerOutlet) Ref() TerminationRef   { return TerminationRef{Kind: KindPowerOutlet, ID: p.ID} }
func (p *PowerOutlet) AttachedCable() *int64 { return p.CableID }

// Interface is a network interface on a device. Type uses media type
// slugs like "1000base-t"; virtual types (virtual, bridge, lag) cannot
// be cabled.
type Interface struct {
	ID       int64
	DeviceID int64
	Name     string
	Type     string
	MgmtOnly bool
	CableID  *int64
	EndpointCache
}

func (i *Interface) Ref() TerminationRef   { return TerminationRef{Kind: KindInterface, ID: i.ID} }
func (i *Interface) AttachedCable() *int64 { return i.CableID }

// Connectable reports whether this interface may terminate a cable.
func (i *Interface) Connectable() bool { return InterfaceTypeConnectable(i.Type) }

// FrontPort is the patch side of a pass-through panel port. It maps to
// exactly one position on its rear port and is never a path terminus.
type FrontPort struct {
	ID               int64
	DeviceID         int64
	Name             string
	Type             string
	RearPortID       int64
	RearPortPosition int
	CableID          *int64
}

func (p *FrontPort) Ref() TerminationRef   { return TerminationRef{Kind: KindFrontPort, ID: p.ID} }
func (p *FrontPort) AttachedCable() *int64 { return p.CableID }

// RearPortRef returns the reference to the paired rear port.
func (p *FrontPort) RearPortRef() TerminationRef {
	return TerminationRef{Kind: KindRearPort, ID: p.RearPortID}
}

// RearPort is the backbone side of a pass-through panel port.
// Positions is the number of front ports that may multiplex onto it.
type RearPort struct {
	ID        int64
	DeviceID  int64
	Name      string
	Type      string
	Positions int
	CableID   *int64
}

func (p *RearPort) Ref() TerminationRef   { return TerminationRef{Kind: KindRearPort, ID: p.ID} }
func (p *RearPort) AttachedCable() *int64 { return p.CableID }

// PowerFeed is an electrical circuit delivered from a power panel.
type PowerFeed struct {
	ID      int64
	Name    string
	RackID  *int64
	CableID *int64
}

func (p *PowerFeed) Ref() TerminationRef   { return TerminationRef{Kind: KindPowerFeed, ID: p.ID} }
func (p *PowerFeed) AttachedCable() *int64 { return p.CableID }

// CircuitTermination is one side (A or Z) of a provider circuit.
type CircuitTermination struct {
	ID        int64
	CircuitID int64
	TermSide  string
	CableID   *int64
}

func (c *CircuitTermination) Ref() TerminationRef {
	return TerminationRef{Kind: KindCircuitTermination, ID: c.ID}
}
func (c *CircuitTermination) AttachedCable() *int64 { return c.CableID }

// Describe returns a short human-readable label for a termination.
func Describe(t Termination) string {
	switch v := t.(type) {
	case *ConsolePort:
		return fmt.Sprintf("console port %s", v.Name)
	case *ConsoleServerPort:
		return fmt.Sprintf("console server port %s", v.Name)
	case *PowerPort:
		return fmt.Sprintf("power port %s", v.Name)
	case *PowerOutlet:
		return fmt.Sprintf("power outlet %s", v.Name)
	case *Interface:
		return fmt.Sprintf("interface %s", v.Name)
	case *FrontPort:
		return fmt.Sprintf("front port %s", v.Name)
	case *RearPort:
		return fmt.Sprintf("rear port %s", v.Name)
	case *PowerFeed:
		return fmt.Sprintf("power feed %s", v.Name)
	case *CircuitTermination:
		return fmt.Sprintf("circuit %d side %s", v.CircuitID, v.TermSide)
	}
	return t.Ref().String()
}

// PositionCount returns the number of positions a termination spans.
// Only rear ports fan out; everything else occupies a single position.
func PositionCount(t Termination) int {
	if rp, ok := t.(*RearPort); ok && rp.Positions > 0 {
		return rp.Positions
	}
	return 1
}
