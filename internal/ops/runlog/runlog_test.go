// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package runlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sohayama/kikira/internal/ops/runlog"
)

/* TestLog_AppendsInOrderWithTimestamps */
func TestLog_AppendsInOrderWithTimestamps(t *testing.T) {
	log := runlog.New(nil)

	log.Printf("row %d: matched %q", 1, "蛇香のライラ")
	log.Printf("row %d: skipped", 2)

	lines := log.Lines()
	assert.Len(t, lines, 2)
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2} row 1: matched "蛇香のライラ"$`, lines[0])
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2} row 2: skipped$`, lines[1])
}

/* TestLog_SinkReceivesEveryLine */
func TestLog_SinkReceivesEveryLine(t *testing.T) {
	var streamed []string
	log := runlog.New(func(line string) { streamed = append(streamed, line) })

	log.Printf("first")
	log.Printf("second")

	assert.Equal(t, log.Lines(), streamed)
}

/* TestLog_NilLogDropsLines */
func TestLog_NilLogDropsLines(t *testing.T) {
	var log *runlog.Log

	log.Printf("into the void")
	assert.Nil(t, log.Lines())
}

/* TestLog_LinesReturnsSnapshot */
func TestLog_LinesReturnsSnapshot(t *testing.T) {
	log := runlog.New(nil)
	log.Printf("one")

	snapshot := log.Lines()
	log.Printf("two")

	assert.Len(t, snapshot, 1)
	assert.Len(t, log.Lines(), 2)
}
