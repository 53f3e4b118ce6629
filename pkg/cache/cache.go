// Package cache stores finished translations keyed by source and options.
//
// Design: One badger key per translation. Keys are content hashes, so a
// stale entry can only be a miss, never a wrong answer.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/valdisz/PyToJs/pkg/diag"
)

var ErrNotFound = errors.New("cache entry not found")

const keyPrefix = "tr:"

// Config selects the storage. An empty Dir keeps entries in memory.
type Config struct {
	Dir    string
	TTL    time.Duration
	Logger *slog.Logger
}

// Entry is a stored translation result.
type Entry struct {
	Output      string            `json:"output"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	OK          bool              `json:"ok"`
}

type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// badgerLogger adapts slog to badger's logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func Open(cfg Config) (*Cache, error) {
	var opts badger.Options
	if cfg.Dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db, ttl: cfg.TTL}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Key derives the cache key for src translated under variant, a string
// that captures every option affecting the output.
func Key(src []byte, variant string) string {
	h := sha256.New()
	h.Write([]byte(variant))
	h.Write([]byte{0})
	h.Write(src)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) Get(ctx context.Context, key string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entry Entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		c.misses.Add(1)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	c.hits.Add(1)
	return &entry, nil
}

func (c *Cache) Put(ctx context.Context, key string, entry *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	val, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+key), val)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Purge drops every stored translation.
func (c *Cache) Purge() error {
	return c.db.DropPrefix([]byte(keyPrefix))
}

// Stats returns hit and miss counts since Open.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
