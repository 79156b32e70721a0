// Package serialsink provides a byte sink standing in for the kernel's
// serial port collaborator (spec.md §1: "the serial driver provides a
// byte sink"). It is backed by a real PTY so the mirrored bytes can be
// observed by any program that opens the slave side — grounded on
// KarpelesLab-bgrun's daemon/vty.go (github.com/creack/pty usage) and the
// teacher's own pty.go interface shape, replacing the teacher's direct
// cgo/ptmx handling with the pack's creack/pty library.
package serialsink

import (
	"fmt"
	"os"

	"github.com/creack/pty"
)

// Sink is an io.Writer that mirrors bytes into a PTY master, and reports
// the path of its slave end so another program (a real serial terminal,
// or a test) can read what the kernel terminal mirrored.
type Sink struct {
	master, slave *os.File
}

// Open allocates a PTY pair and returns a Sink writing to the master
// side. rows/cols set the PTY's reported window size, matching
// pty.Setsize's usage in the pack's daemon/vty.go.
func Open(rows, cols int) (*Sink, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("serialsink: open pty: %w", err)
	}

	if err := pty.Setsize(master, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		master.Close()
		slave.Close()
		return nil, fmt.Errorf("serialsink: set size: %w", err)
	}

	return &Sink{master: master, slave: slave}, nil
}

// Write mirrors bytes to the PTY master, implementing io.Writer so it
// plugs directly into kterm.Options.SerialSink.
func (s *Sink) Write(p []byte) (int, error) {
	return s.master.Write(p)
}

// SlaveName returns the path of the PTY's slave end.
func (s *Sink) SlaveName() string {
	return s.slave.Name()
}

// Close releases both ends of the PTY pair.
func (s *Sink) Close() error {
	s.slave.Close()
	return s.master.Close()
}
