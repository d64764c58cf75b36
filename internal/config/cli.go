// Package config defines the vpad command line.
package config

import "github.com/aidoo/vpad/internal/cmd"

// Log holds the logging flags shared by every command.
type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"VPAD_LOG_LEVEL"`
	File    string `help:"Log file path; empty logs to stdout/stderr" env:"VPAD_LOG_FILE"`
	RawFile string `help:"Write a hex dump of every transport frame to this file" env:"VPAD_LOG_RAW_FILE"`
}

// CLI is the root kong command.
type CLI struct {
	ConfigFile string `name:"config" help:"Configuration file (json, yaml or toml)" env:"VPAD_CONFIG"`
	Log        Log    `embed:"" prefix:"log."`

	Serve   cmd.Serve         `cmd:"" help:"Run the virtual gamepad and accept a HID host"`
	Replay  cmd.Replay        `cmd:"" help:"Play a touch script through the pad and print the resulting reports"`
	Monitor cmd.Monitor       `cmd:"" help:"Attach to a running vpad as the HID host and print its reports"`
	Layout  cmd.LayoutCommand `cmd:"" help:"Pad layout helpers"`
	Config  cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
}
