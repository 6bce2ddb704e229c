package models

import (
	"testing"
)

func TestIsCompatible(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Kind
		expected bool
	}{
		{
			name:     "interface to interface",
			a:        KindInterface,
			b:        KindInterface,
			expected: true,
		},
		{
			name:     "interface to front port",
			a:        KindInterface,
			b:        KindFrontPort,
			expected: true,
		},
		{
			name:     "interface to power port",
			a:        KindInterface,
			b:        KindPowerPort,
			expected: false,
		},
		{
			name:     "console port to console server port",
			a:        KindConsolePort,
			b:        KindConsoleServerPort,
			expected: true,
		},
		{
			name:     "console port to console port",
			a:        KindConsolePort,
			b:        KindConsolePort,
			expected: false,
		},
		{
			name:     "power port to power outlet",
			a:        KindPowerPort,
			b:        KindPowerOutlet,
			expected: true,
		},
		{
			name:     "power port to power feed",
			a:        KindPowerPort,
			b:        KindPowerFeed,
			expected: true,
		},
		{
			name:     "power outlet to power feed",
			a:        KindPowerOutlet,
			b:        KindPowerFeed,
			expected: false,
		},
		{
			name:     "front port to rear port",
			a:        KindFrontPort,
			b:        KindRearPort,
			expected: true,
		},
		{
			name:     "rear port to rear port",
			a:        KindRearPort,
			b:        KindRearPort,
			expected: true,
		},
		{
			name:     "circuit termination to interface",
			a:        KindCircuitTermination,
			b:        KindInterface,
			expected: true,
		},
		{
			name:     "circuit termination to circuit termination",
			a:        KindCircuitTermination,
			b:        KindCircuitTermination,
			expected: true,
		},
		{
			name:     "circuit termination to power port",
			a:        KindCircuitTermination,
			b:        KindPowerPort,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCompatible(tt.a, tt.b); got != tt.expected {
				t.Errorf("IsCompatible(%s, %s) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestIsCompatibleSymmetric(t *testing.T) {
	for _, a := range AllKinds {
		for _, b := range AllKinds {
			if IsCompatible(a, b) != IsCompatible(b, a) {
				t.Errorf("compatibility matrix is asymmetric for (%s, %s)", a, b)
			}
		}
	}
}

func TestIsPassThrough(t *testing.T) {
	for _, k := range AllKinds {
		expected := k == KindFrontPort || k == KindRearPort
		if got := IsPassThrough(k); got != expected {
			t.Errorf("IsPassThrough(%s) = %v, expected %v", k, got, expected)
		}
	}
}

func TestIsConnectable(t *testing.T) {
	connectable := map[Kind]bool{
		KindConsolePort:       true,
		KindConsoleServerPort: true,
		KindPowerPort:         true,
		KindPowerOutlet:       true,
		KindInterface:         true,
	}
	for _, k := range AllKinds {
		if got := IsConnectable(k); got != connectable[k] {
			t.Errorf("IsConnectable(%s) = %v, expected %v", k, got, connectable[k])
		}
	}
}

func TestInterfaceTypeConnectable(t *testing.T) {
	tests := []struct {
		ifaceType string
		expected  bool
	}{
		{"", true},
		{"1000base-t", true},
		{"10gbase-x-sfpp", true},
		{"virtual", false},
		{"bridge", false},
		{"lag", false},
	}

	for _, tt := range tests {
		if got := InterfaceTypeConnectable(tt.ifaceType); got != tt.expected {
			t.Errorf("InterfaceTypeConnectable(%q) = %v, expected %v", tt.ifaceType, got, tt.expected)
		}
	}
}

func TestParseKind(t *testing.T) {
	if _, err := ParseKind("interface"); err != nil {
		t.Errorf("ParseKind(interface) error = %v", err)
	}
	if _, err := ParseKind("widget"); err == nil {
		t.Error("ParseKind(widget) expected error, got nil")
	}
}

func TestCablePeerOf(t *testing.T) {
	a := TerminationRef{Kind: KindInterface, ID: 1}
	b := TerminationRef{Kind: KindFrontPort, ID: 2}
	cable := &Cable{ID: 10, TerminationA: a, TerminationB: b}

	peer, ok := cable.PeerOf(a)
	if !ok || peer != b {
		t.Errorf("PeerOf(a) = %v, %v, expected %v, true", peer, ok, b)
	}

	peer, ok = cable.PeerOf(b)
	if !ok || peer != a {
		t.Errorf("PeerOf(b) = %v, %v, expected %v, true", peer, ok, a)
	}

	if _, ok := cable.PeerOf(TerminationRef{Kind: KindInterface, ID: 99}); ok {
		t.Error("PeerOf(unrelated) expected ok=false")
	}
}

func TestPositionCount(t *testing.T) {
	if got := PositionCount(&RearPort{ID: 1, Positions: 4}); got != 4 {
		t.Errorf("PositionCount(rear port) = %d, expected 4", got)
	}
	if got := PositionCount(&FrontPort{ID: 1}); got != 1 {
		t.Errorf("PositionCount(front port) = %d, expected 1", got)
	}
	if got := PositionCount(&Interface{ID: 1}); got != 1 {
		t.Errorf("PositionCount(interface) = %d, expected 1", got)
	}
}

func TestDeviceConfigSlug(t *testing.T) {
	tests := []struct {
		name       string
		deviceName string
		expected   string
	}{
		{
			name:       "simple name",
			deviceName: "server01",
			expected:   "server01",
		},
		{
			name:       "name with spaces",
			deviceName: "Patch Panel 01",
			expected:   "patch-panel-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := &DeviceConfig{Name: tt.deviceName}
			if result := device.Slug(); result != tt.expected {
				t.Errorf("DeviceConfig.Slug() = %q, expected %q", result, tt.expected)
			}
		})
	}
}
