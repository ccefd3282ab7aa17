// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ffshader

import (
	"context"

	"github.com/gogpu/ffshader/caps"
	"github.com/gogpu/ffshader/internal/cache"
	"github.com/gogpu/ffshader/ir"
)

// CacheKey identifies a shader in a ShaderCache. Generation is deterministic,
// so stage and capability set are the whole key.
type CacheKey struct {
	Stage ir.Stage
	Caps  caps.Set
}

// CacheStats contains ShaderCache statistics.
type CacheStats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// ShaderCache retains shaders created by a Synthesizer. Evicted shaders are
// destroyed; failed creations are not cached and are retried by the next
// request.
//
// ShaderCache is safe for concurrent use. Creation is serialized per cache.
type ShaderCache struct {
	s *Synthesizer
	c *cache.Cache[CacheKey, *Shader]
}

// NewShaderCache returns a cache of at most capacity shaders in front of s.
// A capacity of 0 means unlimited.
func NewShaderCache(s *Synthesizer, capacity int) *ShaderCache {
	return &ShaderCache{
		s: s,
		c: cache.NewWithEvict(capacity, func(k CacheKey, sh *Shader) {
			Logger().Debug("ffshader: shader evicted", "stage", k.Stage, "caps", k.Caps)
			sh.Destroy()
		}),
	}
}

// Get returns the cached shader of stage and set, creating it on a miss.
// The returned shader is owned by the cache and must not be destroyed.
func (c *ShaderCache) Get(ctx context.Context, stage ir.Stage, set caps.Set) (*Shader, error) {
	return c.c.GetOrCreate(CacheKey{Stage: stage, Caps: set}, func() (*Shader, error) {
		return c.s.Create(ctx, stage, set)
	})
}

// VertexShader returns the cached vertex shader of set.
func (c *ShaderCache) VertexShader(ctx context.Context, set caps.Set) (*Shader, error) {
	return c.Get(ctx, ir.StageVertex, set)
}

// PixelShader returns the cached pixel shader of set.
func (c *ShaderCache) PixelShader(ctx context.Context, set caps.Set) (*Shader, error) {
	return c.Get(ctx, ir.StagePixel, set)
}

// Len returns the number of cached shaders.
func (c *ShaderCache) Len() int {
	return c.c.Len()
}

// Stats returns cache statistics.
func (c *ShaderCache) Stats() CacheStats {
	st := c.c.Stats()
	return CacheStats{
		Len:       st.Len,
		Capacity:  st.Capacity,
		Hits:      st.Hits,
		Misses:    st.Misses,
		Evictions: st.Evictions,
		HitRate:   st.HitRate,
	}
}

// Purge destroys every cached shader.
func (c *ShaderCache) Purge() {
	c.c.Clear()
}
