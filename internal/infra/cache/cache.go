package cache

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/sysconfig"
	"team_rotator/internal/domain/task"
)

const keyPrefix = "rotator:"

// Backends groups the repositories a Cache reads through to.
type Backends struct {
	Members     member.Repository
	Tasks       task.Repository
	Assignments assignment.Repository
	Configs     sysconfig.Repository
}

// Cache fronts the storage repositories with Redis-backed read caching.
// Writes go to the backend first and then evict the affected keys.
type Cache struct {
	base  Backends
	redis *redis.Client
	ttl   time.Duration
}

// New creates a cache using the provided Redis client and TTL. A nil client or zero TTL disables caching.
func New(base Backends, client *redis.Client, ttl time.Duration) *Cache {
	if base.Members == nil || base.Tasks == nil || base.Assignments == nil || base.Configs == nil {
		panic("cache.New: all backends are required")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) Members() member.Repository         { return memberRepo{c} }
func (c *Cache) Tasks() task.Repository             { return taskRepo{c} }
func (c *Cache) Assignments() assignment.Repository { return assignmentRepo{c} }
func (c *Cache) Configs() sysconfig.Repository      { return configRepo{c} }

type memberRepo struct{ c *Cache }

func (r memberRepo) ListAll(ctx context.Context) ([]member.Member, error) {
	return readThrough(ctx, r.c, membersKey, r.c.base.Members.ListAll)
}

func (r memberRepo) Create(ctx context.Context, m *member.Member) error {
	return r.c.write(ctx, func() error { return r.c.base.Members.Create(ctx, m) }, membersKey)
}

func (r memberRepo) Update(ctx context.Context, m member.Member) error {
	return r.c.write(ctx, func() error { return r.c.base.Members.Update(ctx, m) }, membersKey)
}

func (r memberRepo) Delete(ctx context.Context, id int64) error {
	return r.c.write(ctx, func() error { return r.c.base.Members.Delete(ctx, id) }, membersKey)
}

type taskRepo struct{ c *Cache }

func (r taskRepo) ListAll(ctx context.Context) ([]task.Task, error) {
	return readThrough(ctx, r.c, tasksKey, r.c.base.Tasks.ListAll)
}

func (r taskRepo) Create(ctx context.Context, t *task.Task) error {
	return r.c.write(ctx, func() error { return r.c.base.Tasks.Create(ctx, t) }, tasksKey)
}

func (r taskRepo) Update(ctx context.Context, t task.Task) error {
	return r.c.write(ctx, func() error { return r.c.base.Tasks.Update(ctx, t) }, tasksKey)
}

func (r taskRepo) Delete(ctx context.Context, id int64) error {
	return r.c.write(ctx, func() error { return r.c.base.Tasks.Delete(ctx, id) }, tasksKey)
}

type assignmentRepo struct{ c *Cache }

func (r assignmentRepo) ListAll(ctx context.Context) ([]assignment.Assignment, error) {
	return readThrough(ctx, r.c, assignmentsKey, r.c.base.Assignments.ListAll)
}

func (r assignmentRepo) Upsert(ctx context.Context, a assignment.Assignment) error {
	return r.c.write(ctx, func() error { return r.c.base.Assignments.Upsert(ctx, a) }, assignmentsKey)
}

func (r assignmentRepo) Delete(ctx context.Context, id int64) error {
	return r.c.write(ctx, func() error { return r.c.base.Assignments.Delete(ctx, id) }, assignmentsKey)
}

type configRepo struct{ c *Cache }

func (r configRepo) Get(ctx context.Context, key string) (*sysconfig.Entry, error) {
	return readThrough(ctx, r.c, configKey(key), func(ctx context.Context) (*sysconfig.Entry, error) {
		return r.c.base.Configs.Get(ctx, key)
	})
}

func (r configRepo) ListAll(ctx context.Context) ([]sysconfig.Entry, error) {
	return readThrough(ctx, r.c, configsKey, r.c.base.Configs.ListAll)
}

func (r configRepo) Save(ctx context.Context, e sysconfig.Entry) error {
	return r.c.write(ctx, func() error { return r.c.base.Configs.Save(ctx, e) }, configKey(e.Key), configsKey)
}

// readThrough serves key from Redis when present and otherwise loads and stores it.
// Redis failures fall back to the backend without failing the call.
func readThrough[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := loadCached[T](ctx, c, key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	c.store(ctx, key, v)
	return v, nil
}

func loadCached[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var v T
	if c.redis == nil {
		return v, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			_ = c.redis.Del(ctx, key).Err()
		}
		return v, false
	}
	if err := sonic.Unmarshal(data, &v); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return v, false
	}
	return v, true
}

func (c *Cache) store(ctx context.Context, key string, v any) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(v)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

// write runs op against the backend and evicts keys once it succeeds.
func (c *Cache) write(ctx context.Context, op func() error, keys ...string) error {
	if err := op(); err != nil {
		return err
	}
	c.evict(ctx, keys...)
	return nil
}

func (c *Cache) evict(ctx context.Context, keys ...string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, keys...).Result()
}

const (
	membersKey     = keyPrefix + "members"
	tasksKey       = keyPrefix + "tasks"
	assignmentsKey = keyPrefix + "assignments"
	configsKey     = keyPrefix + "configs"
)

func configKey(key string) string {
	return keyPrefix + "config:" + key
}
