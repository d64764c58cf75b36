package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aidoo/vpad/device/gamepad"
	"github.com/aidoo/vpad/internal/touchscript"
	"github.com/aidoo/vpad/pad"
)

// Replay plays a touch script through the pad without any transport and
// prints the key edges and the resulting gamepad reports.
type Replay struct {
	Script  string  `arg:"" help:"Touch script (json, yaml or toml)"`
	Layout  string  `help:"Pad layout file; empty uses the default layout" env:"VPAD_LAYOUT"`
	Density float64 `help:"Screen density used to scale the default layout" default:"1" env:"VPAD_DENSITY"`
	Delays  bool    `help:"Honor step delays instead of replaying at once"`
}

// reportPrinter is a gamepad.ButtonSetter that prints every report change.
type reportPrinter struct {
	w      io.Writer
	report gamepad.ReportState
}

func (p *reportPrinter) SetButton(mask uint8, pressed bool) {
	if !p.report.Set(mask, pressed) {
		return
	}
	in := p.report.Input()
	fmt.Fprintf(p.w, "    report %02x (%s)\n", in.BuildReport(), in.String())
}

// Run is called by Kong when the replay command is executed.
func (r *Replay) Run() error {
	return r.Execute(context.Background(), os.Stdout)
}

// Execute replays the script, writing a transcript to w.
func (r *Replay) Execute(ctx context.Context, w io.Writer) error {
	layout := pad.DefaultLayout(r.Density)
	if r.Layout != "" {
		l, err := pad.LoadLayout(r.Layout)
		if err != nil {
			return err
		}
		layout = l
	}
	script, err := touchscript.Load(r.Script)
	if err != nil {
		return err
	}

	printer := &reportPrinter{w: w}
	sink := pad.MultiSink{
		pad.SinkFuncs{Button: func(action pad.Action, code int) {
			fmt.Fprintf(w, "    %s %s\n", action, pad.KeyCodeName(code))
		}},
		gamepad.NewBridge(printer, nil),
	}
	surface, err := layout.Build(pad.DefaultKeyMap(), sink)
	if err != nil {
		return err
	}

	if !r.Delays {
		for i := range script.Steps {
			script.Steps[i].DelayMS = 0
		}
	}
	// Steps are announced before dispatch so their edges print beneath them.
	announce := &announcer{Dispatcher: surface, w: w}
	if err := script.Play(ctx, announce, nil); err != nil {
		return err
	}
	fmt.Fprintf(w, "final report %02x (%s)\n", printer.report.Report(), printer.report.Input().String())
	return nil
}

type announcer struct {
	touchscript.Dispatcher
	w    io.Writer
	step int
}

func (a *announcer) Dispatch(ev pad.MotionEvent) bool {
	fmt.Fprintf(a.w, "step %d: %s", a.step, ev.Action)
	if ev.Action != pad.MotionMove && ev.Action != pad.MotionCancel && ev.Index < len(ev.Pointers) {
		p := ev.Pointers[ev.Index]
		fmt.Fprintf(a.w, " pointer %d at (%g, %g)", p.ID, p.X, p.Y)
	}
	fmt.Fprintln(a.w)
	a.step++
	return a.Dispatcher.Dispatch(ev)
}
