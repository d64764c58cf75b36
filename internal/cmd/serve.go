package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aidoo/vpad/device/gamepad"
	"github.com/aidoo/vpad/internal/auth"
	"github.com/aidoo/vpad/internal/configpaths"
	"github.com/aidoo/vpad/internal/log"
	"github.com/aidoo/vpad/internal/server/hidhost"
	"github.com/aidoo/vpad/internal/touchscript"
	"github.com/aidoo/vpad/internal/util"
	"github.com/aidoo/vpad/pad"
)

const keyFileName = "vpad.key.txt"

// Serve runs the virtual gamepad.
type Serve struct {
	Host    hidhost.ServerConfig `embed:"" prefix:"host."`
	HID     gamepad.AppSettings  `embed:"" prefix:"hid."`
	Layout  string               `help:"Pad layout file (json, yaml or toml); empty uses the default layout" env:"VPAD_LAYOUT"`
	Density float64              `help:"Screen density used to scale the default layout" default:"1" env:"VPAD_DENSITY"`
	Script  string               `help:"Touch script to play into the pad once it is up" env:"VPAD_SCRIPT"`
	Loop    bool                 `help:"Replay the touch script until interrupted"`
	Auth    bool                 `help:"Require a password; one is generated and stored when none is configured" default:"false" env:"VPAD_AUTH"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := s.StartServe(ctx, logger, rawLogger)
	if err != nil {
		logger.Error("serve failed", "error", err)
		util.PauseIfGUI()
	}
	return err
}

// StartServe blocks until ctx is done or the touch script fails.
func (s *Serve) StartServe(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	layout := pad.DefaultLayout(s.Density)
	if s.Layout != "" {
		l, err := pad.LoadLayout(s.Layout)
		if err != nil {
			return err
		}
		layout = l
	}
	var script *touchscript.Script
	if s.Script != "" {
		sc, err := touchscript.Load(s.Script)
		if err != nil {
			return err
		}
		script = sc
	}

	if s.Auth && s.Host.Password == "" {
		pwd, err := loadOrCreateKey(logger)
		if err != nil {
			return err
		}
		s.Host.Password = pwd
	}

	srv := hidhost.New(s.Host, logger, rawLogger)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start hid host: %w", err)
	}
	defer srv.Close()

	link := gamepad.NewLink(srv, s.HID, logger)
	if err := link.Register(); err != nil {
		return err
	}
	defer func() {
		if err := link.Disconnect(); err != nil {
			logger.Debug("disconnect", "error", err)
		}
	}()

	sink := pad.MultiSink{
		gamepad.NewBridge(link, nil),
		pad.SinkFuncs{Button: func(action pad.Action, code int) {
			logger.Debug("pad key", "action", action.String(), "code", pad.KeyCodeName(code))
		}},
	}
	surface, err := layout.Build(pad.DefaultKeyMap(), sink)
	if err != nil {
		return err
	}
	logger.Info("pad ready", "components", len(surface.Components()), "addr", srv.Addr().String())

	if script == nil {
		<-ctx.Done()
		return nil
	}
	for {
		err := script.Play(ctx, surface, nil)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		if !s.Loop {
			logger.Info("touch script finished")
			<-ctx.Done()
			return nil
		}
	}
}

func loadOrCreateKey(logger *slog.Logger) (string, error) {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve key file path: %w", err)
	}
	keyFilePath := filepath.Join(dir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(pwd)), nil
	}
	pwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(pwd), 0o600); err != nil {
		return "", fmt.Errorf("failed to write password to file: %w", err)
	}
	logger.Info("Generated HID host password", "path", keyFilePath)
	logger.Info("-------------------------------------")
	logger.Info(pwd)
	logger.Info("-------------------------------------")
	return pwd, nil
}
