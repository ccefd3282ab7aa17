// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compile

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// Loader turns bytecode into device shader objects.
type Loader interface {
	Load(label string, code *Bytecode) (hal.ShaderModule, error)
	Unload(m hal.ShaderModule)
}

// HALLoader loads SPIR-V bytecode through a hal.Device.
type HALLoader struct {
	Device hal.Device
}

// NewHALLoader returns a loader creating modules on device.
func NewHALLoader(device hal.Device) *HALLoader {
	return &HALLoader{Device: device}
}

// Load creates a shader module from SPIR-V bytecode.
func (l *HALLoader) Load(label string, code *Bytecode) (hal.ShaderModule, error) {
	if l == nil || l.Device == nil {
		return nil, ErrNoDevice
	}
	if code == nil {
		return nil, errors.New("compile: nil bytecode")
	}
	words, err := code.Words()
	if err != nil {
		return nil, err
	}
	module, err := l.Device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: words,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("compile: create shader module %q: %w", label, err)
	}
	slogger().Debug("compile: loaded shader module", "label", label, "words", len(words))
	return module, nil
}

// Unload destroys a module created by Load. Nil modules are ignored.
func (l *HALLoader) Unload(m hal.ShaderModule) {
	if l == nil || l.Device == nil || m == nil {
		return
	}
	l.Device.DestroyShaderModule(m)
}

// HALDevice extracts the hal.Device behind a device provider. The provider
// must implement HalDevice() any returning a hal.Device.
func HALDevice(provider gpucontext.DeviceProvider) (hal.Device, error) {
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("compile: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("compile: provider HalDevice is not hal.Device")
	}
	return device, nil
}

// LoaderFromProvider returns a HALLoader for the device of provider.
func LoaderFromProvider(provider gpucontext.DeviceProvider) (*HALLoader, error) {
	device, err := HALDevice(provider)
	if err != nil {
		return nil, err
	}
	return NewHALLoader(device), nil
}
