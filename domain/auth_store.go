package domain

import "context"

type AuthStore interface {
	Register(ctx context.Context, credentials *Credentials) error
	GetByUsername(ctx context.Context, username string) (*Credentials, error)
}

type AuthCache interface {
	PostCacheData(ctx context.Context, key string, value string) error
	GetCachedValue(ctx context.Context, key string) (string, error)
	DelCachedValue(ctx context.Context, key string) error
}
