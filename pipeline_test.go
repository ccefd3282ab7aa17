package ffshader

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/internal/gputest"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRenderPipeline(t *testing.T) {
	device, _ := gputest.NoopDevice(t)
	s, err := New(WithDevice(device))
	require.NoError(t, err)

	for _, set := range caps.Supported() {
		t.Run(set.String(), func(t *testing.T) {
			rp, err := s.CreateRenderPipeline(context.Background(), set, gputypes.TextureFormatBGRA8Unorm)
			require.NoError(t, err)
			assert.NotNil(t, rp.Pipeline)
			assert.NotNil(t, rp.Layout)
			assert.Len(t, rp.BindGroupLayouts, 2)
			assert.NotNil(t, rp.Vertex.Module)
			assert.NotNil(t, rp.Pixel.Module)
			assert.Equal(t, set, rp.Caps)

			rp.Destroy()
			assert.Nil(t, rp.Pipeline)
			assert.Nil(t, rp.BindGroupLayouts)
			rp.Destroy()
		})
	}
}

func TestCreateRenderPipelineNeedsDevice(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	_, err = s.CreateRenderPipeline(context.Background(), 0, gputypes.TextureFormatBGRA8Unorm)
	assert.True(t, errors.Is(err, ErrNoDevice))
}

func TestCreateRenderPipelineFailure(t *testing.T) {
	device, _ := gputest.NoopDevice(t)
	s, err := New(WithDevice(device))
	require.NoError(t, err)
	_, err = s.CreateRenderPipeline(context.Background(), caps.Set(1<<5), gputypes.TextureFormatBGRA8Unorm)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, PhaseDeclared, e.Phase)
}
