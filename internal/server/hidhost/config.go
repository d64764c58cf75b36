package hidhost

import "time"

// ServerConfig configures the TCP HID profile.
type ServerConfig struct {
	Addr             string        `help:"HID host listen address" default:":3243" env:"VPAD_HOST_ADDR"`
	Password         string        `help:"Password hosts must present; empty disables authentication and encryption" env:"VPAD_HOST_PASSWORD"`
	QueueSize        int           `help:"Outgoing frames buffered per host before reports are rejected" default:"64" env:"VPAD_HOST_QUEUE_SIZE"`
	HandshakeTimeout time.Duration `help:"Time a host has to complete authentication" default:"5s" env:"VPAD_HOST_HANDSHAKE_TIMEOUT"`
}
