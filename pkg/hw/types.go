package hw

// NoKey is the key code reported when no key is selected.
const NoKey uint8 = 0xff

// KeyScan is a snapshot of the keyboard matrix taken when a tick starts.
type KeyScan struct {
	Key     uint8 // NoKey when nothing is selected
	Pressed bool
}

// Keyboard provides keyboard snapshots. Matrix scanning and decoding
// belong to the keyboard driver; the core only consumes snapshots.
type Keyboard interface {
	Scan() KeyScan
}

// ScanFunc is the func form of Keyboard.
type ScanFunc func() KeyScan

// Scan implements Keyboard.
func (f ScanFunc) Scan() KeyScan { return f() }

// ListItem is one row on a list screen.
type ListItem struct {
	Index uint8
	Label string
}

// ListScreen describes a list screen for the display driver.
type ListScreen struct {
	Title     string
	Items     []ListItem
	ItemCount uint8
	Width     uint8
	Height    uint8
	X         uint8
	Y         uint8
}

// Display is the rendering collaborator. The core hands it screen
// descriptors and requests redraws; rendering is external.
type Display interface {
	// Init brings up the display hardware.
	Init() error
	// SetList attaches a list screen, nil detaches the current one.
	SetList(*ListScreen)
	// DrawText places text at the given position for the next Draw.
	DrawText(x, y uint8, text string)
	// Draw renders everything accumulated since the last Draw.
	Draw()
}

// RadioBand selects the transceiver frequency band.
type RadioBand uint8

// Supported frequency bands.
const (
	Band315MHz RadioBand = iota
	Band433MHz
	Band868MHz
	Band915MHz
)

// BroadcastNode is the node ID addressing every badge in range.
const BroadcastNode uint8 = 0xff

// Radio is the transceiver collaborator. Receive must not block:
// it reports whatever already arrived, if anything.
type Radio interface {
	// Init brings up the transceiver on a band with a node ID.
	Init(band RadioBand, nodeID uint8) error
	// SetPowerLevel sets the transmit power level.
	SetPowerLevel(level uint8)
	// Send transmits a payload to a node (or BroadcastNode).
	Send(to uint8, payload []byte) error
	// Receive polls for a received payload.
	Receive() ([]byte, bool)
}

// Flash is the programmable persistent memory device.
type Flash interface {
	// Unlock enables programming.
	Unlock() error
	// Lock disables programming.
	Lock()
	// MinWriteSize returns the minimum programmable unit in bytes.
	MinWriteSize() int
	// Program writes data at offset. offset and len(data) must be
	// multiples of MinWriteSize.
	Program(offset uint32, data []byte) error
	// Read copies len(buf) bytes at offset into buf.
	Read(offset uint32, buf []byte) error
}

// TickSource provides the monotonic tick counter. The core reads it,
// never owns or resets it.
type TickSource interface {
	Ticks() uint32
}

// TickFunc is the func form of TickSource.
type TickFunc func() uint32

// Ticks implements TickSource.
func (f TickFunc) Ticks() uint32 { return f() }
