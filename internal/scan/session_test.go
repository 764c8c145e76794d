package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/erazemk/inventura/internal/inventory"
	"github.com/erazemk/inventura/internal/kv"
)

// fakeDecoder records start/stop calls and lets tests emit decoded codes.
type fakeDecoder struct {
	mu       sync.Mutex
	running  bool
	starts   int
	stops    int
	startErr error
	blockOn  chan struct{} // if set, Start blocks until the channel closes
	onDecode func(code string)
}

func (d *fakeDecoder) Start(_ context.Context, _ StartOptions, onDecode func(code string)) error {
	d.mu.Lock()
	block := d.blockOn
	d.mu.Unlock()
	if block != nil {
		<-block
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.starts++
	if d.startErr != nil {
		return d.startErr
	}
	d.running = true
	d.onDecode = onDecode
	return nil
}

func (d *fakeDecoder) Stop(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
	d.running = false
	return nil
}

func (d *fakeDecoder) emit(code string) {
	d.mu.Lock()
	onDecode := d.onDecode
	running := d.running
	d.mu.Unlock()
	if running && onDecode != nil {
		onDecode(code)
	}
}

func (d *fakeDecoder) isRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func newTestSession(t *testing.T, dec Decoder) (*Session, *inventory.Store) {
	t.Helper()
	store, err := inventory.New(context.Background(), kv.NewMemory())
	if err != nil {
		t.Fatalf("inventory.New: %v", err)
	}
	return NewSession(store, dec, StartOptions{}), store
}

func TestOpenStartsCameraMode(t *testing.T) {
	dec := &fakeDecoder{}
	sess, _ := newTestSession(t, dec)
	ctx := context.Background()

	if err := sess.Open(ctx, "Shelf A"); err != nil {
		t.Fatalf("Open: %v", err)
	}

	status := sess.Status()
	if status.State != "scanning" || status.Mode != "camera" {
		t.Errorf("expected scanning/camera, got %s/%s", status.State, status.Mode)
	}
	if status.Location != "Shelf A" {
		t.Errorf("expected location Shelf A, got %q", status.Location)
	}
	if !dec.isRunning() {
		t.Error("expected decoder to be running after Open")
	}
}

func TestOpenValidation(t *testing.T) {
	dec := &fakeDecoder{}
	sess, _ := newTestSession(t, dec)
	ctx := context.Background()

	if err := sess.Open(ctx, "  "); !errors.Is(err, inventory.ErrValidation) {
		t.Errorf("expected ErrValidation for blank location, got %v", err)
	}

	if err := sess.Open(ctx, "Shelf A"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := sess.Open(ctx, "Shelf B"); !errors.Is(err, ErrState) {
		t.Errorf("expected ErrState for double open, got %v", err)
	}
}

func TestDecodeCaptureAndCommit(t *testing.T) {
	dec := &fakeDecoder{}
	sess, store := newTestSession(t, dec)
	ctx := context.Background()

	sess.Open(ctx, "Shelf A")
	dec.emit("SKU123")

	status := sess.Status()
	if status.State != "pending_quantity" {
		t.Fatalf("expected pending_quantity after decode, got %s", status.State)
	}
	if status.PendingCode != "SKU123" {
		t.Errorf("expected pending code SKU123, got %q", status.PendingCode)
	}
	if dec.isRunning() {
		t.Error("expected decoder stopped while quantity prompt is open")
	}

	if err := sess.Commit(ctx, 3); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	records := store.Items("")
	if len(records) != 1 {
		t.Fatalf("expected 1 record after commit, got %d", len(records))
	}
	if records[0].Code != "SKU123" || records[0].Location != "Shelf A" || records[0].Quantity != 3 {
		t.Errorf("unexpected record: %+v", records[0])
	}

	status = sess.Status()
	if status.State != "scanning" || status.Mode != "camera" {
		t.Errorf("expected return to scanning/camera, got %s/%s", status.State, status.Mode)
	}
	if !dec.isRunning() {
		t.Error("expected decoder restarted after commit")
	}
}

func TestCommitValidationKeepsPrompt(t *testing.T) {
	dec := &fakeDecoder{}
	sess, store := newTestSession(t, dec)
	ctx := context.Background()

	sess.Open(ctx, "Shelf A")
	dec.emit("SKU123")

	for _, quantity := range []int{0, -5} {
		err := sess.Commit(ctx, quantity)
		if !errors.Is(err, inventory.ErrValidation) {
			t.Errorf("quantity %d: expected ErrValidation, got %v", quantity, err)
		}
	}

	if got := sess.Status().State; got != "pending_quantity" {
		t.Errorf("expected prompt to stay open, got %s", got)
	}
	if got := len(store.Items("")); got != 0 {
		t.Errorf("expected store unchanged, got %d records", got)
	}
}

func TestToggleMode(t *testing.T) {
	dec := &fakeDecoder{}
	sess, store := newTestSession(t, dec)
	ctx := context.Background()

	sess.Open(ctx, "Shelf A")

	if err := sess.ToggleMode(ctx); err != nil {
		t.Fatalf("ToggleMode: %v", err)
	}
	if got := sess.Status().Mode; got != "manual" {
		t.Errorf("expected manual mode, got %s", got)
	}
	if dec.isRunning() {
		t.Error("expected decoder stopped in manual mode")
	}

	// Manual capture and commit: decoder must stay stopped afterwards.
	if err := sess.Capture(ctx, "TYPED-1"); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if err := sess.Commit(ctx, 1); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if dec.isRunning() {
		t.Error("expected decoder to stay stopped after manual commit")
	}
	if got := len(store.Items("")); got != 1 {
		t.Errorf("expected 1 record, got %d", got)
	}

	if err := sess.ToggleMode(ctx); err != nil {
		t.Fatalf("ToggleMode (back): %v", err)
	}
	if !dec.isRunning() {
		t.Error("expected decoder restarted in camera mode")
	}
}

func TestToggleModeNoopWhilePending(t *testing.T) {
	dec := &fakeDecoder{}
	sess, _ := newTestSession(t, dec)
	ctx := context.Background()

	sess.Open(ctx, "Shelf A")
	dec.emit("SKU123")

	if err := sess.ToggleMode(ctx); err != nil {
		t.Fatalf("ToggleMode: %v", err)
	}
	if got := sess.Status().Mode; got != "camera" {
		t.Errorf("expected mode unchanged while pending, got %s", got)
	}
}

func TestCaptureIgnoredWhilePending(t *testing.T) {
	dec := &fakeDecoder{}
	sess, _ := newTestSession(t, dec)
	ctx := context.Background()

	sess.Open(ctx, "Shelf A")
	dec.emit("FIRST")

	err := sess.Capture(ctx, "SECOND")
	if !errors.Is(err, ErrState) {
		t.Errorf("expected ErrState, got %v", err)
	}
	if got := sess.Status().PendingCode; got != "FIRST" {
		t.Errorf("expected pending code FIRST, got %q", got)
	}
}

func TestStartFailureLeavesManualUsable(t *testing.T) {
	dec := &fakeDecoder{startErr: fmt.Errorf("permission denied")}
	sess, store := newTestSession(t, dec)
	ctx := context.Background()

	err := sess.Open(ctx, "Shelf A")
	if !errors.Is(err, ErrStart) {
		t.Fatalf("expected ErrStart, got %v", err)
	}

	// Session is open; manual entry still works.
	if err := sess.ToggleMode(ctx); err != nil {
		t.Fatalf("ToggleMode: %v", err)
	}
	if err := sess.Capture(ctx, "TYPED-1"); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if err := sess.Commit(ctx, 2); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := len(store.Items("")); got != 1 {
		t.Errorf("expected 1 record, got %d", got)
	}
}

func TestCloseResetsSession(t *testing.T) {
	dec := &fakeDecoder{}
	sess, _ := newTestSession(t, dec)
	ctx := context.Background()

	sess.Open(ctx, "Shelf A")
	dec.emit("SKU123")

	if err := sess.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	status := sess.Status()
	if status.State != "idle" || status.Location != "" || status.PendingCode != "" {
		t.Errorf("expected clean idle state, got %+v", status)
	}
	if dec.isRunning() {
		t.Error("expected decoder stopped after close")
	}

	// Closing an idle session is a no-op.
	if err := sess.Close(ctx); err != nil {
		t.Errorf("Close (idle): %v", err)
	}
}

func TestDeferredStopDuringStart(t *testing.T) {
	release := make(chan struct{})
	dec := &fakeDecoder{blockOn: release}
	sess, _ := newTestSession(t, dec)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- sess.Open(ctx, "Shelf A") }()

	// Wait for the start to be in flight, then close the session.
	deadline := time.After(2 * time.Second)
	for sess.Status().State != "scanning" {
		select {
		case <-deadline:
			t.Fatal("session never entered scanning state")
		case <-time.After(time.Millisecond):
		}
	}
	if err := sess.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Let the start complete; the deferred stop must be honoured.
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Open: %v", err)
	}
	if dec.isRunning() {
		t.Error("expected decoder stopped once deferred stop ran")
	}

	dec.mu.Lock()
	starts, stops := dec.starts, dec.stops
	dec.mu.Unlock()
	if starts != 1 || stops != 1 {
		t.Errorf("expected 1 start and 1 stop, got %d/%d", starts, stops)
	}
}
