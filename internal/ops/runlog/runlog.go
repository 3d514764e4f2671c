// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package runlog collects the human-readable progress lines of an engine run.
//
// # Contract
//
// Lines are append-only and never reordered: the admin UI shows them as a
// live log, so order is part of the interface. Engines are strictly
// sequential within a run, so a Log is single-goroutine by design and takes
// no lock.
package runlog

import (
	"fmt"
	"time"
)

// Sink receives each formatted line as it is appended. Used to stream
// progress while a run is still executing.
type Sink func(line string)

// Log is the append-only run log of one engine invocation.
//
// The zero value is unusable; a nil *Log is valid and drops every line,
// which lets callers run engines silently.
type Log struct {
	lines []string
	sink  Sink
	now   func() time.Time
}

// New creates an empty run log. sink may be nil.
func New(sink Sink) *Log {
	return &Log{sink: sink, now: time.Now}
}

// Printf appends one timestamped line.
func (log *Log) Printf(format string, args ...any) {
	if log == nil {
		return
	}

	line := log.now().Format("15:04:05") + " " + fmt.Sprintf(format, args...)
	log.lines = append(log.lines, line)

	if log.sink != nil {
		log.sink(line)
	}
}

// Lines returns a snapshot of every line appended so far.
func (log *Log) Lines() []string {
	if log == nil {
		return nil
	}
	return append([]string(nil), log.lines...)
}
