package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger dumps transport frames.
type RawLogger interface {
	// Log writes one frame; in is host->device.
	Log(in bool, data []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw returns a RawLogger writing to w. A nil w discards everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

func (r *rawLogger) Log(in bool, data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}
	dir := "D->H"
	if in {
		dir = "H->D"
	}
	line := fmt.Sprintf("%s %s frame: %d bytes, hex: % x\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		dir,
		len(data),
		data)

	r.mu.Lock()
	_, _ = io.WriteString(r.w, line)
	r.mu.Unlock()
}

