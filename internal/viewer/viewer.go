// Package viewer implements the Viewer component: one pseudo-terminal pair
// running the backend multiplexer's attach client, a dedicated reader that
// feeds an ANSI/VT parser, and snapshot production for rendering.
package viewer

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const readBufSize = 4096

// teardownDeadline bounds how long Close waits for the reader goroutine to
// exit before abandoning it.
const teardownDeadline = 500 * time.Millisecond

var (
	// ErrNotAlive is returned by WriteInput when the viewer has already
	// observed EOF or a read error.
	ErrNotAlive = errors.New("viewer not alive")
)

// Viewer owns one pseudo-terminal pair attached to a backend multiplexer
// session. It has exactly one reader goroutine for its lifetime.
type Viewer struct {
	pty     *ptyHandle
	process *os.Process

	mu  sync.Mutex // guards emulator access (reader + snapshotter)
	emu *emulator

	alive atomic.Bool
	done  chan struct{} // closed when the reader goroutine returns

	writeMu sync.Mutex // serializes writes to the pty master
}

// Spawn allocates a pseudo-terminal of the given size, launches the backend
// multiplexer's attach client on the slave with TERM=xterm-256color, starts
// a dedicated reader on the master, and returns a Viewer.
func Spawn(sessionName string, rows, cols int) (*Viewer, error) {
	handle, proc, err := startAttachClient(sessionName, rows, cols)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		pty:     handle,
		process: proc,
		emu:     newEmulator(rows, cols),
		done:    make(chan struct{}),
	}
	v.alive.Store(true)

	go v.readLoop()

	return v, nil
}

// readLoop reads up to 4 KiB at a time from the pty master, advancing the
// emulator byte by byte. On EOF or a read error it marks the viewer dead
// and returns.
func (v *Viewer) readLoop() {
	defer close(v.done)

	buf := make([]byte, readBufSize)
	for {
		n, err := v.pty.Read(buf)
		if n > 0 {
			v.mu.Lock()
			v.emu.write(buf[:n])
			v.mu.Unlock()
		}
		if err != nil {
			v.alive.Store(false)
			return
		}
		if n == 0 {
			v.alive.Store(false)
			return
		}
	}
}

// IsAlive is false iff the reader has observed EOF or a read error.
func (v *Viewer) IsAlive() bool {
	return v.alive.Load()
}

// MarkDead sets alive to false without joining the reader.
func (v *Viewer) MarkDead() {
	v.alive.Store(false)
}

// WriteInput writes raw input bytes to the pty master.
func (v *Viewer) WriteInput(b []byte) error {
	if !v.IsAlive() {
		return ErrNotAlive
	}
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	_, err := v.pty.Write(b)
	return err
}

// Resize resizes both the pseudo-terminal and the internal emulator model.
func (v *Viewer) Resize(rows, cols int) error {
	if err := v.pty.Resize(rows, cols); err != nil {
		return err
	}
	v.mu.Lock()
	v.emu.resize(rows, cols)
	v.mu.Unlock()
	return nil
}

// Snapshot returns an immutable TerminalSnapshot. The lock is held only
// long enough to walk the grid; it is never held across rendering.
func (v *Viewer) Snapshot() (TerminalSnapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return snapshotFrom(v.emu), true
}

// MouseReportingActive reports whether the attached application has
// requested mouse reporting.
func (v *Viewer) MouseReportingActive() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.emu.mouseReportingActive()
}

// BracketedPasteActive reports whether bracketed paste mode is active.
func (v *Viewer) BracketedPasteActive() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.emu.bracketedPasteActive()
}

// Close tears the viewer down: it signals the attach-client child, marks
// the viewer dead, and joins the reader goroutine with a bounded wait,
// abandoning it on timeout. This is the two-step kill-and-join teardown the
// Runtime Manager relies on before spawning a replacement Viewer.
func (v *Viewer) Close() {
	if v.process != nil {
		_ = v.process.Kill()
	}
	v.alive.Store(false)

	select {
	case <-v.done:
	case <-time.After(teardownDeadline):
		// Abandon: the reader goroutine may still be blocked in Read: it
		// will exit on its own once the killed child's pty side closes.
	}
	_ = v.pty.Close()
}
