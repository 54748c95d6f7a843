package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

// DefaultSessionTTL bounds how long an untouched session snapshot is
// kept in redis.
const DefaultSessionTTL = 30 * 24 * time.Hour

// RedisSessions keeps session snapshots in redis, one JSON blob per
// user.
type RedisSessions struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisSessions builds a redis-backed session store scoped to
// userID.
func NewRedisSessions(rdb *redis.Client, userID string) *RedisSessions {
	return &RedisSessions{
		rdb: rdb,
		key: "session:" + userID,
		ttl: DefaultSessionTTL,
	}
}

func (s *RedisSessions) Load(ctx context.Context) (*project.Project, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	var p project.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	project.Normalize(&p)
	if err := project.Validate(&p); err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	return &p, nil
}

func (s *RedisSessions) Save(ctx context.Context, p project.Project) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return &PersistenceError{Op: "saveSession", Err: err}
	}
	if err := s.rdb.Set(ctx, s.key, raw, s.ttl).Err(); err != nil {
		return &PersistenceError{Op: "saveSession", Err: err}
	}
	return nil
}

// FileSessions keeps session snapshots as YAML files in a directory,
// one file per user. It backs local development and offline authoring.
type FileSessions struct {
	dir    string
	userID string
}

// NewFileSessions builds a file-backed session store under dir.
func NewFileSessions(dir, userID string) *FileSessions {
	return &FileSessions{dir: dir, userID: userID}
}

func (s *FileSessions) path() string {
	return filepath.Join(s.dir, s.userID+".yaml")
}

func (s *FileSessions) Load(ctx context.Context) (*project.Project, error) {
	raw, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	var p project.Project
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	project.Normalize(&p)
	if err := project.Validate(&p); err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	return &p, nil
}

func (s *FileSessions) Save(ctx context.Context, p project.Project) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return &PersistenceError{Op: "saveSession", Err: err}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &PersistenceError{Op: "saveSession", Err: err}
	}
	// Write-then-rename so a crash never leaves a torn snapshot.
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return &PersistenceError{Op: "saveSession", Err: err}
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return &PersistenceError{Op: "saveSession", Err: err}
	}
	return nil
}
