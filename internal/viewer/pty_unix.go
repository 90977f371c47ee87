//go:build !windows

package viewer

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// ptyHandle is the OS-level pseudo-terminal master, grounded on
// kdlbs-kandev's creack/pty usage pattern.
type ptyHandle struct {
	f *os.File
}

func (p *ptyHandle) Read(b []byte) (int, error)  { return p.f.Read(b) }
func (p *ptyHandle) Write(b []byte) (int, error) { return p.f.Write(b) }
func (p *ptyHandle) Close() error                { return p.f.Close() }

func (p *ptyHandle) Resize(rows, cols int) error {
	return pty.Setsize(p.f, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func startAttachClient(sessionName string, rows, cols int) (*ptyHandle, *os.Process, error) {
	cmd := exec.Command("tmux", "attach-session", "-t", sessionName)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, nil, err
	}
	return &ptyHandle{f: f}, cmd.Process, nil
}
