// Package clipboard implements the external clipboard adapter boundary:
// the host OS clipboard when one is reachable, falling back to an
// OSC52 terminal escape sequence (so copy still works over a bare SSH
// session with no X11/Wayland/pbcopy clipboard utility installed).
package clipboard

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Sentinel errors matching spec section 7's clipboard error kinds.
var (
	ErrContentNotAvailable = errors.New("clipboard: content not available")
	ErrNotSupported        = errors.New("clipboard: not supported")
	ErrOccupied            = errors.New("clipboard: occupied by another process")
	ErrConversionFailure   = errors.New("clipboard: conversion failure")
)

// Clipboard is the single mutable adapter the event-loop thread reads
// and writes through.
type Clipboard struct {
	// oscOut is the terminal's output stream; OSC52 writes are only
	// attempted when it is non-nil, since they require a live terminal
	// connection rather than a regular file or pipe.
	oscOut io.Writer
}

// New returns a Clipboard that falls back to writing an OSC52 sequence
// to oscOut when the OS clipboard is unavailable. oscOut may be nil to
// disable the fallback entirely.
func New(oscOut io.Writer) *Clipboard {
	return &Clipboard{oscOut: oscOut}
}

// Read returns the current OS clipboard contents. OSC52 has no read
// channel (terminals that support it treat it as write-only in
// practice), so a read failure here is always ErrContentNotAvailable.
func (c *Clipboard) Read() (string, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrContentNotAvailable, err)
	}
	return s, nil
}

// Write sets the OS clipboard to s, falling back to an OSC52 escape
// sequence on the pane's terminal output if the OS clipboard call
// fails and a fallback writer was configured.
func (c *Clipboard) Write(s string) error {
	if err := clipboard.WriteAll(s); err == nil {
		return nil
	}
	if c.oscOut == nil {
		return ErrNotSupported
	}
	if _, err := osc52.New(s).WriteTo(c.oscOut); err != nil {
		return fmt.Errorf("%w: %v", ErrConversionFailure, err)
	}
	return nil
}
