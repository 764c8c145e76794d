package scan

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// StartOptions configures the decode capability.
type StartOptions struct {
	// Facing is the preferred camera facing for camera-based decoders
	// ("environment" or "user"). Ignored by device decoders.
	Facing string
	// FrameRate is the number of decode attempts per second.
	FrameRate int
	// RegionWidth and RegionHeight bound the scan region in pixels.
	RegionWidth  int
	RegionHeight int
}

// Decoder converts a stream of scanner input into decoded codes. Start
// returns once the capability is running; onDecode is then invoked once per
// successfully decoded code until Stop. Transient per-frame failures are
// never reported. onDecode may call Stop.
type Decoder interface {
	Start(ctx context.Context, opts StartOptions, onDecode func(code string)) error
	Stop(ctx context.Context) error
}

// DeviceDecoder reads newline-terminated codes from a serial or HID barcode
// scanner device (e.g. /dev/ttyACM0). Empty lines are treated as transient
// decode failures and discarded.
type DeviceDecoder struct {
	path string

	mu      sync.Mutex
	file    *os.File
	gen     int // incremented on every Stop so stale read loops stop emitting
	running bool
}

// NewDeviceDecoder returns a decoder reading from the device at path.
func NewDeviceDecoder(path string) *DeviceDecoder {
	return &DeviceDecoder{path: path}
}

// Start opens the device and begins emitting decoded lines to onDecode.
func (d *DeviceDecoder) Start(_ context.Context, _ StartOptions, onDecode func(code string)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}
	if d.path == "" {
		return fmt.Errorf("no scanner device configured")
	}

	file, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("opening scanner device: %w", err)
	}

	d.file = file
	d.running = true
	gen := d.gen

	go d.readLoop(file, gen, onDecode)
	return nil
}

func (d *DeviceDecoder) readLoop(file *os.File, gen int, onDecode func(code string)) {
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		code := strings.TrimSpace(scanner.Text())
		if code == "" {
			continue
		}

		d.mu.Lock()
		stale := d.gen != gen
		d.mu.Unlock()
		if stale {
			return
		}

		onDecode(code)
	}
	// Read errors after Stop are expected (closed file); before Stop they
	// end the stream, equivalent to a scanner that stops yielding frames.
}

// Stop halts decoding and closes the device. Codes read after Stop are
// discarded. Safe to call from within onDecode and when not running.
func (d *DeviceDecoder) Stop(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}
	d.running = false
	d.gen++

	err := d.file.Close()
	d.file = nil
	if err != nil {
		return fmt.Errorf("closing scanner device: %w", err)
	}
	return nil
}
