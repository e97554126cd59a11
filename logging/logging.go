package logging

import (
	resourcemock "github.com/tarmac-project/resourcemock"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const capabilityName = "logging"

// Client exposes convenience helpers for sending log entries to the host runtime.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig resourcemock.RuntimeConfig

	// HostCall overrides the waPC host function used for logging operations.
	HostCall resourcemock.HostCall
}

// Discard is a Client that drops every entry. Components fall back to it
// when no logger is configured.
var Discard Client = discard{}

// client implements Client using the configured host call entrypoint.
type client struct {
	runtime  resourcemock.RuntimeConfig
	hostCall resourcemock.HostCall
}

// New creates a Client that emits logs through the configured host capability.
func New(cfg Config) (Client, error) {
	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &client{
		runtime:  cfg.SDKConfig.WithDefaults(),
		hostCall: hostCall,
	}, nil
}

func (c *client) Info(message string)  { c.log("Info", message) }
func (c *client) Warn(message string)  { c.log("Warn", message) }
func (c *client) Error(message string) { c.log("Error", message) }
func (c *client) Debug(message string) { c.log("Debug", message) }
func (c *client) Trace(message string) { c.log("Trace", message) }

// log is fire-and-forget; a failing host must not break the caller.
func (c *client) log(fn string, message string) {
	_, _ = c.hostCall(c.runtime.Namespace, capabilityName, fn, []byte(message))
}

type discard struct{}

func (discard) Info(string)  {}
func (discard) Warn(string)  {}
func (discard) Error(string) {}
func (discard) Debug(string) {}
func (discard) Trace(string) {}
