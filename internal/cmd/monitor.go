package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/aidoo/vpad/device/gamepad"
	"github.com/aidoo/vpad/hostclient"
)

// Monitor attaches to a vpad server as the HID host and prints what the
// gamepad reports.
type Monitor struct {
	Addr     string        `help:"vpad HID host address" default:"localhost:3243" env:"VPAD_MONITOR_ADDR"`
	Password string        `help:"Password configured on the server" env:"VPAD_MONITOR_PASSWORD"`
	Get      time.Duration `help:"Poll the input report with GET_REPORT at this interval; 0 disables" default:"0s"`
	Timeout  time.Duration `help:"Dial and read timeout" default:"5s" env:"VPAD_MONITOR_TIMEOUT"`
}

// Run is called by Kong when the monitor command is executed.
func (m *Monitor) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	live := term.IsTerminal(int(os.Stdout.Fd()))
	return m.Execute(ctx, os.Stdout, live, logger)
}

// Execute prints the device info and every report to w until ctx is done or
// the server goes away. In live mode reports overwrite a single line.
func (m *Monitor) Execute(ctx context.Context, w io.Writer, live bool, logger *slog.Logger) error {
	c, err := hostclient.Dial(ctx, m.Addr, &hostclient.Config{
		DialTimeout:  m.Timeout,
		ReadTimeout:  m.Timeout,
		WriteTimeout: m.Timeout,
		Password:     m.Password,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	info := c.Info()
	fmt.Fprintf(w, "device: %s (%s) by %s, subclass %d, report id %d\n",
		info.Name, info.Description, info.Provider, info.Subclass, info.ReportID)
	fmt.Fprintf(w, "descriptor: %d bytes\n  % x\n", len(c.Descriptor()), c.Descriptor())

	var tick <-chan time.Time
	if m.Get > 0 {
		t := time.NewTicker(m.Get)
		defer t.Stop()
		tick = t.C
	}

	width := 0
	if live {
		if f, ok := w.(*os.File); ok {
			if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
				width = cols - 1
			}
		}
	}
	show := func(prefix string, data []byte) {
		var in gamepad.InputState
		desc := "short report"
		if err := in.UnmarshalBinary(data); err == nil {
			desc = in.String()
		}
		line := fmt.Sprintf("%s % x %s", prefix, data, desc)
		if !live {
			fmt.Fprintln(w, line)
			return
		}
		if width > len(line) {
			line += strings.Repeat(" ", width-len(line))
		}
		fmt.Fprintf(w, "\r%s", line)
	}

	for {
		select {
		case <-ctx.Done():
			if live {
				fmt.Fprintln(w)
			}
			return nil
		case r, ok := <-c.Reports():
			if !ok {
				if err := c.Err(); err != nil && !errors.Is(err, hostclient.ErrClosed) && !errors.Is(err, io.EOF) {
					if live {
						fmt.Fprintln(w)
					}
					return err
				}
				return nil
			}
			if r.ID != info.ReportID {
				logger.Debug("report for unexpected id", "id", r.ID)
			}
			show("input", r.Data)
		case <-tick:
			getCtx, cancel := ctx, context.CancelFunc(func() {})
			if m.Timeout > 0 {
				getCtx, cancel = context.WithTimeout(ctx, m.Timeout)
			}
			rep, err := c.GetReport(getCtx, gamepad.ReportTypeInput, info.ReportID, gamepad.InputReportSize)
			cancel()
			if err != nil {
				logger.Warn("get report failed", "error", err)
				continue
			}
			show("get  ", rep.Data)
		}
	}
}
