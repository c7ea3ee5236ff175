package cache

import (
	"context"

	"recipe-bot/internal/core/ai/provider"
	"recipe-bot/internal/pkg/common"
)

var _ provider.Provider = (*CachingProvider)(nil)

// CachingProvider answers repeated requests from the Manager. Only requests
// whose Purpose is listed as cacheable are stored.
type CachingProvider struct {
	inner     provider.Provider
	manager   *Manager
	cacheable map[string]bool
}

// Wrap returns inner unchanged when manager is nil.
func Wrap(inner provider.Provider, manager *Manager, purposes ...string) provider.Provider {
	if manager == nil {
		return inner
	}
	cacheable := make(map[string]bool, len(purposes))
	for _, p := range purposes {
		cacheable[p] = true
	}
	return &CachingProvider{inner: inner, manager: manager, cacheable: cacheable}
}

func (p *CachingProvider) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if !p.cacheable[req.Purpose] {
		return p.inner.Complete(ctx, req)
	}

	key := Key(p.inner.Model(), req)
	if val, err := p.manager.Get(ctx, key); err == nil {
		common.LogCacheHit(req.Purpose)
		return &provider.Response{Content: val, CacheHit: true}, nil
	}
	common.LogCacheMiss(req.Purpose)

	resp, err := p.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	p.manager.Set(ctx, key, resp.Content)
	return resp, nil
}

func (p *CachingProvider) Model() string {
	return p.inner.Model()
}

func (p *CachingProvider) Close() error {
	return p.inner.Close()
}
