package ffshader

import (
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// Option configures a Synthesizer during creation.
//
// Example:
//
//	// WGSL and naga, no device: shaders carry bytecode only.
//	s, err := ffshader.New()
//
//	// Load modules on the device of a host framework.
//	s, err := ffshader.New(ffshader.WithDeviceProvider(provider))
type Option func(*options)

type options struct {
	backend   *Backend
	device    hal.Device
	provider  gpucontext.DeviceProvider
	storePath string
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		backend: nil, // WebGPUBackend
	}
}

// WithBackend selects the generator and compiler.
func WithBackend(b *Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithDevice loads compiled shaders as modules on device.
func WithDevice(device hal.Device) Option {
	return func(o *options) {
		o.device = device
	}
}

// WithDeviceProvider loads compiled shaders on the HAL device of provider.
// The provider must expose it through HalDevice() any. WithDevice takes
// precedence when both are given.
func WithDeviceProvider(provider gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithStore persists bytecode in the SQLite database at path. The database
// is created if it does not exist and closed by Synthesizer.Close.
func WithStore(path string) Option {
	return func(o *options) {
		o.storePath = path
	}
}

// WithLogger sets the package logger, as SetLogger does.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
