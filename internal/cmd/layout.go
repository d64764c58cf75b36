package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/aidoo/vpad/internal/configpaths"
	"github.com/aidoo/vpad/pad"
)

// LayoutCommand groups pad layout subcommands.
type LayoutCommand struct {
	Init  LayoutInit  `cmd:"" help:"Write the default pad layout"`
	Check LayoutCheck `cmd:"" help:"Validate a pad layout and list its components"`
}

// LayoutInit writes the default layout for a screen density.
type LayoutInit struct {
	Format  string  `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string  `help:"Destination file path (defaults to layout.<format> in the current directory)"`
	Density float64 `help:"Screen density" default:"1"`
	Force   bool    `help:"Overwrite if the file already exists"`
}

func (c *LayoutInit) Run() error {
	format := normalizeFormat(c.Format)
	if format == "" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}
	dest := c.Output
	if dest == "" {
		dest = "layout." + configpaths.Ext(format)
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	data, err := pad.DefaultLayout(c.Density).Encode(format)
	if err != nil {
		return err
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

// LayoutCheck loads a layout and builds it against the default key map.
type LayoutCheck struct {
	Path string `arg:"" help:"Layout file (json, yaml or toml)"`
}

func (c *LayoutCheck) Run() error {
	return c.Execute(os.Stdout)
}

func (c *LayoutCheck) Execute(w io.Writer) error {
	l, err := pad.LoadLayout(c.Path)
	if err != nil {
		return err
	}
	surface, err := l.Build(pad.DefaultKeyMap(), nil)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tBOUNDS\tKEYS")
	for _, comp := range surface.Components() {
		b := comp.Bounds()
		var keys string
		if comp.Kind() == pad.KindButton {
			keys = pad.KeyCodeName(comp.Value())
		} else {
			codes := comp.Codes()
			keys = fmt.Sprintf("%s %s/%s/%s/%s", comp.Mode(),
				pad.KeyCodeName(codes.Left), pad.KeyCodeName(codes.Top),
				pad.KeyCodeName(codes.Right), pad.KeyCodeName(codes.Bottom))
		}
		fmt.Fprintf(tw, "%d\t%s\t%dx%d@%d,%d\t%s\n", comp.ID(), comp.Kind(), b.Width, b.Height, b.X, b.Y, keys)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d components ok\n", c.Path, len(surface.Components()))
	return nil
}
