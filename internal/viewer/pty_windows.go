//go:build windows

package viewer

import (
	"errors"
	"os"
)

// ptyHandle is unavailable on Windows: the backend multiplexer contract
// (tmux) has no native Windows target, and this repo does not attempt to
// bridge through a ConPTY-based alternative.
type ptyHandle struct{}

func (p *ptyHandle) Read(b []byte) (int, error)  { return 0, errors.New("pty unsupported on windows") }
func (p *ptyHandle) Write(b []byte) (int, error) { return 0, errors.New("pty unsupported on windows") }
func (p *ptyHandle) Close() error                { return nil }
func (p *ptyHandle) Resize(rows, cols int) error { return errors.New("pty unsupported on windows") }

func startAttachClient(sessionName string, rows, cols int) (*ptyHandle, *os.Process, error) {
	return nil, nil, errors.New("viewer spawn unsupported on windows")
}
