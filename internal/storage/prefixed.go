package storage

import "context"

// Prefixed namespaces every key of an underlying Storage, so several origins
// (one per chat) can share one backend.
type Prefixed struct {
	base   Storage
	prefix string
}

func NewPrefixed(base Storage, prefix string) *Prefixed {
	return &Prefixed{base: base, prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.base.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	return p.base.Set(ctx, p.prefix+key, value)
}

func (p *Prefixed) Remove(ctx context.Context, key string) error {
	return p.base.Remove(ctx, p.prefix+key)
}
