// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputest provides noop HAL devices and device providers for tests.
package gputest

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// NoopDevice opens a device on the noop backend. The device and its instance
// are destroyed when the test finishes.
func NoopDevice(t testing.TB) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop backend reported no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

// Provider implements gpucontext.DeviceProvider and exposes a HAL device
// through HalDevice, the way host frameworks share their device.
type Provider struct {
	HAL    hal.Device
	Format gputypes.TextureFormat
}

func (p *Provider) Device() gpucontext.Device             { return nil }
func (p *Provider) Queue() gpucontext.Queue               { return nil }
func (p *Provider) Adapter() gpucontext.Adapter           { return nil }
func (p *Provider) SurfaceFormat() gputypes.TextureFormat { return p.Format }

// HalDevice returns the HAL device.
func (p *Provider) HalDevice() any { return p.HAL }

// BareProvider implements gpucontext.DeviceProvider without HAL access.
type BareProvider struct{}

func (BareProvider) Device() gpucontext.Device   { return nil }
func (BareProvider) Queue() gpucontext.Queue     { return nil }
func (BareProvider) Adapter() gpucontext.Adapter { return nil }
func (BareProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}
