package constants

// Default values for new cables
const (
	DefaultCableType   = "cat6a"
	DefaultCableStatus = "connected"
	DefaultLengthUnit  = "m"
)

// MaxTraceHops bounds a single path walk. A legitimate cable plant never
// comes close to this; malformed data must not loop forever.
const MaxTraceHops = 50

// Inventory directory layout
const (
	DirSites   = "definitions/sites"
	DirDevices = "inventory/devices"
)

// Cable color map
var CableColorMap = map[string]string{
	"cat6":  "f44336",
	"cat6a": "ffeb3b",
	"cat7":  "ff9800",
	"dac":   "000000",
	"fiber": "00bcd4",
	"om3":   "00bcd4",
	"om4":   "2196f3",
	"os2":   "9c27b0",
}
