package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type MockRedisClient struct {
	ExistFunc         func(ctx context.Context, key string) (bool, error)
	GetFunc           func(ctx context.Context, key string) (string, error)
	DelFunc           func(ctx context.Context, key ...string) error
	SetNXFunc         func(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	CompareAndDelFunc func(ctx context.Context, key, value string) (bool, error)
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	return "", redis.Nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if m.SetNXFunc != nil {
		return m.SetNXFunc(ctx, key, value, ttl)
	}

	return true, nil
}

func (m *MockRedisClient) CompareAndDel(ctx context.Context, key, value string) (bool, error) {
	if m.CompareAndDelFunc != nil {
		return m.CompareAndDelFunc(ctx, key, value)
	}

	return true, nil
}

// NewInMemoryRedisClient returns a MockRedisClient backed by a map. Keys never
// expire.
func NewInMemoryRedisClient() *MockRedisClient {
	var mutex sync.Mutex
	data := map[string]string{}

	return &MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			mutex.Lock()
			defer mutex.Unlock()
			_, ok := data[key]
			return ok, nil
		},
		GetFunc: func(ctx context.Context, key string) (string, error) {
			mutex.Lock()
			defer mutex.Unlock()
			v, ok := data[key]
			if !ok {
				return "", redis.Nil
			}
			return v, nil
		},
		DelFunc: func(ctx context.Context, key ...string) error {
			mutex.Lock()
			defer mutex.Unlock()
			for _, k := range key {
				delete(data, k)
			}
			return nil
		},
		SetNXFunc: func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
			mutex.Lock()
			defer mutex.Unlock()
			if _, ok := data[key]; ok {
				return false, nil
			}
			data[key] = value
			return true, nil
		},
		CompareAndDelFunc: func(ctx context.Context, key, value string) (bool, error) {
			mutex.Lock()
			defer mutex.Unlock()
			if data[key] != value {
				return false, nil
			}
			delete(data, key)
			return true, nil
		},
	}
}
