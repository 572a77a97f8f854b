// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger is the central log of the emulator. Conditions the user
// should hear about, but that never stop emulation, are logged here as
// "tag: detail" entries.
package logger

import "io"

// Permission decides whether a log call is honored.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow always permits logging.
var Allow Permission = allow{}

const maxCentral = 256

var central = NewLogger(maxCentral)

// Log adds an entry to the central log.
func Log(perm Permission, tag, detail string) {
	central.Log(perm, tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(perm Permission, tag, detail string, args ...any) {
	central.Logf(perm, tag, detail, args...)
}

// Clear empties the central log.
func Clear() {
	central.Clear()
}

// Write writes the central log to output.
func Write(output io.Writer) {
	central.Write(output)
}

// Tail writes the last number entries of the central log to output.
func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho echoes new central log entries to output.
func SetEcho(output io.Writer) {
	central.SetEcho(output)
}
