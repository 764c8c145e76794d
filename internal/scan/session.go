// Package scan implements the counting session: the state machine that binds
// a location, captures codes from a decoder or manual entry, and commits
// quantities to the inventory store.
package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/erazemk/inventura/internal/inventory"
)

// Sentinel errors for session failures.
var (
	// ErrStart wraps decoder startup failures (device missing, permission
	// denied). The session stays usable in manual mode.
	ErrStart = errors.New("scanner unavailable")
	// ErrState marks an operation that is not valid in the current state.
	ErrState = errors.New("invalid session state")
)

// State is the session's position in the counting workflow.
type State int

const (
	// StateIdle is the initial and terminal state: no location bound.
	StateIdle State = iota
	// StateScanning accepts codes, from the decoder or manual entry.
	StateScanning
	// StatePendingQuantity holds a captured code awaiting its quantity.
	// The decoder is stopped while in this state.
	StatePendingQuantity
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StatePendingQuantity:
		return "pending_quantity"
	default:
		return "idle"
	}
}

// Mode selects how codes enter the session while scanning.
type Mode int

const (
	ModeCamera Mode = iota
	ModeManual
)

func (m Mode) String() string {
	if m == ModeManual {
		return "manual"
	}
	return "camera"
}

// Session is the transient counting workflow for one location. It never
// touches persistence itself; committed counts are delegated to the
// inventory store before the caller is told to re-render.
type Session struct {
	store *inventory.Store
	dec   Decoder
	opts  StartOptions

	mu          sync.Mutex
	state       State
	mode        Mode
	location    string
	pendingCode string
	running     bool // decoder confirmed running
	starting    bool // decoder start in flight
	stopWanted  bool // stop requested while a start was in flight
}

// NewSession creates an idle session.
func NewSession(store *inventory.Store, dec Decoder, opts StartOptions) *Session {
	return &Session{store: store, dec: dec, opts: opts}
}

// Status is a read-only snapshot of the session for rendering.
type Status struct {
	State       string `json:"state"`
	Mode        string `json:"mode"`
	Location    string `json:"location,omitempty"`
	PendingCode string `json:"pending_code,omitempty"`
	Scanning    bool   `json:"scanning"`
}

// Status returns the current session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:       s.state.String(),
		Mode:        s.mode.String(),
		Location:    s.location,
		PendingCode: s.pendingCode,
		Scanning:    s.running,
	}
}

// Open binds the session to a location and starts the decoder in camera
// mode. A decoder startup failure is returned wrapped in ErrStart; the
// session stays open so the user can retry or switch to manual mode.
func (s *Session) Open(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return fmt.Errorf("location: %w", inventory.ErrValidation)
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("%w: session already open", ErrState)
	}
	s.state = StateScanning
	s.mode = ModeCamera
	s.location = location
	s.mu.Unlock()

	return s.startDecoder(ctx)
}

// ToggleMode switches between camera and manual entry. Entering manual mode
// stops the decoder; entering camera mode restarts it. No-op while a
// quantity prompt is pending.
func (s *Session) ToggleMode(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StatePendingQuantity {
		s.mu.Unlock()
		return nil
	}
	if s.state != StateScanning {
		s.mu.Unlock()
		return fmt.Errorf("%w: no scan in progress", ErrState)
	}
	if s.mode == ModeCamera {
		s.mode = ModeManual
		s.mu.Unlock()
		return s.stopDecoder(ctx)
	}
	s.mode = ModeCamera
	s.mu.Unlock()
	return s.startDecoder(ctx)
}

// Capture stores a code and moves the session to the quantity prompt. In
// camera mode the decoder is stopped so no further codes arrive while the
// prompt is open. Called by the decoder callback and by manual submission.
func (s *Session) Capture(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("code: %w", inventory.ErrValidation)
	}

	s.mu.Lock()
	if s.state != StateScanning {
		s.mu.Unlock()
		return fmt.Errorf("%w: no scan in progress", ErrState)
	}
	s.state = StatePendingQuantity
	s.pendingCode = code
	wasCamera := s.mode == ModeCamera
	s.mu.Unlock()

	if wasCamera {
		return s.stopDecoder(ctx)
	}
	return nil
}

// Commit stores the pending code with the given quantity and returns the
// session to scanning, restarting the decoder if camera mode was active
// before the capture. On validation failure the quantity prompt stays open
// and the store is untouched. The record is persisted before Commit returns.
func (s *Session) Commit(ctx context.Context, quantity int) error {
	s.mu.Lock()
	if s.state != StatePendingQuantity {
		s.mu.Unlock()
		return fmt.Errorf("%w: no pending code", ErrState)
	}
	if quantity < 1 {
		s.mu.Unlock()
		return fmt.Errorf("quantity must be at least 1: %w", inventory.ErrValidation)
	}
	code, location := s.pendingCode, s.location
	s.mu.Unlock()

	if _, err := s.store.AddItem(ctx, code, location, quantity); err != nil {
		return err
	}

	s.mu.Lock()
	s.pendingCode = ""
	s.state = StateScanning
	camera := s.mode == ModeCamera
	s.mu.Unlock()

	if camera {
		return s.startDecoder(ctx)
	}
	return nil
}

// Close returns the session to idle from any state, stopping the decoder if
// it is running or still starting.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return nil
	}
	s.state = StateIdle
	s.mode = ModeCamera
	s.location = ""
	s.pendingCode = ""
	s.mu.Unlock()

	return s.stopDecoder(ctx)
}

// startDecoder starts the decoder unless it is already running or starting.
// The mutex is released around the blocking Start call; a Close issued in
// that window is honoured once the start completes (deferred stop), so the
// device never leaks.
func (s *Session) startDecoder(ctx context.Context) error {
	s.mu.Lock()
	if s.running || s.starting {
		s.mu.Unlock()
		return nil
	}
	s.starting = true
	s.mu.Unlock()

	err := s.dec.Start(ctx, s.opts, func(code string) {
		// Decoder callbacks arriving outside camera-mode scanning (late
		// emissions, quantity prompt open) are dropped here by Capture's
		// state check.
		_ = s.Capture(context.Background(), code)
	})

	s.mu.Lock()
	s.starting = false
	if err != nil {
		s.stopWanted = false
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrStart, err)
	}
	if s.stopWanted {
		s.stopWanted = false
		s.mu.Unlock()
		return s.dec.Stop(ctx)
	}
	s.running = true
	s.mu.Unlock()
	return nil
}

// stopDecoder stops the decoder, deferring the stop if a start is in flight.
func (s *Session) stopDecoder(ctx context.Context) error {
	s.mu.Lock()
	if s.starting {
		s.stopWanted = true
		s.mu.Unlock()
		return nil
	}
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()
	return s.dec.Stop(ctx)
}
