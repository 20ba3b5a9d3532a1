package jsonsafe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/toolsafe/cache"
	"github.com/jonwraymond/toolsafe/safe"
)

// Config configures a Store.
type Config struct {
	// FS is the filesystem files are read from and written to.
	// Default: OSFS
	FS FileSystem

	// Codec encodes and decodes documents.
	// Default: JSONCodec with two-space indentation
	Codec Codec

	// FileMode is the permission for written files.
	// Default: 0o644
	FileMode fs.FileMode

	// DirMode is the permission for created directories.
	// Default: 0o755
	DirMode fs.FileMode

	// AtomicWrite writes to a temporary file in the target directory and
	// renames it over the destination.
	// Default: false (overwrite in place)
	AtomicWrite bool

	// ExpandEnv expands $VAR and ${VAR} in paths before use. A ${VAR} that
	// is not set fails with ErrInvalidArgument.
	ExpandEnv bool

	// Cache, when set, holds raw document bytes by resolved path. Load reads
	// through it and Save refreshes it. Files changed behind the store's back
	// are seen once the entry expires.
	Cache cache.Cache

	// CacheTTL is how long cached documents live.
	// Default: 1m
	CacheTTL time.Duration

	// Sink, when set, also receives a diagnostic for every failure.
	Sink *safe.Sink
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.FileMode&^fs.ModePerm != 0 {
		return fmt.Errorf("file mode must only hold permission bits, got: %v", c.FileMode)
	}
	if c.DirMode&^fs.ModePerm != 0 {
		return fmt.Errorf("dir mode must only hold permission bits, got: %v", c.DirMode)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must not be negative, got: %v", c.CacheTTL)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.FS == nil {
		c.FS = OSFS{}
	}
	if c.Codec == nil {
		c.Codec = JSONCodec{}
	}
	if c.FileMode == 0 {
		c.FileMode = 0o644
	}
	if c.DirMode == 0 {
		c.DirMode = 0o755
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Minute
	}
	return c
}

// Store saves and loads documents.
//
// Contract:
// - Concurrency: safe for concurrent use; concurrent loads of one path share a read.
// - Errors: every failure is a *Error and propagates to the caller.
type Store struct {
	config Config
	group  singleflight.Group
}

// NewStore creates a store from cfg.
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Store{config: cfg.withDefaults()}, nil
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

func getDefault() *Store {
	defaultOnce.Do(func() {
		defaultStore = &Store{config: Config{}.withDefaults()}
	})
	return defaultStore
}

// Save encodes v and writes it to path with the default store.
func Save(path string, v any, overwrite bool) error {
	s := getDefault()
	if err := s.save(path, v, overwrite); err != nil {
		return s.report(err, safe.Caller(1))
	}
	return nil
}

// Load reads path with the default store and decodes it into a T.
func Load[T any](path string) (T, error) {
	s := getDefault()
	v, err := load[T](s, path)
	if err != nil {
		return v, s.report(err, safe.Caller(1))
	}
	return v, nil
}

// LoadFrom reads path with s and decodes it into a T.
func LoadFrom[T any](s *Store, path string) (T, error) {
	v, err := load[T](s, path)
	if err != nil {
		return v, s.report(err, safe.Caller(1))
	}
	return v, nil
}

// Save encodes v and writes it to path. An existing file is only replaced
// when overwrite is true.
func (s *Store) Save(path string, v any, overwrite bool) error {
	if err := s.save(path, v, overwrite); err != nil {
		return s.report(err, safe.Caller(1))
	}
	return nil
}

// Codec returns the codec used by the store.
func (s *Store) Codec() Codec {
	return s.config.Codec
}

func (s *Store) save(path string, v any, overwrite bool) error {
	const op = "save"

	resolved, err := s.resolve(op, path)
	if err != nil {
		return err
	}

	exists, err := s.fileExists(resolved)
	if err != nil {
		return newError(op, resolved, ErrInternal, "checking for existing file", err)
	}
	if exists && !overwrite {
		return newError(op, resolved, ErrPermissionDenied, "file exists and overwrite is false", nil)
	}

	data, err := safe.Call(func() ([]byte, error) { return s.config.Codec.Encode(v) })
	if err != nil {
		return newError(op, resolved, ErrSerialization, "encoding "+s.config.Codec.Name(), err)
	}
	if len(data) == 0 {
		return newError(op, resolved, ErrInternal, "encoder produced no output", nil)
	}

	dir := filepath.Dir(resolved)
	if dir == "" || dir == resolved {
		return newError(op, resolved, ErrInternal, "cannot determine parent directory", nil)
	}
	if err := s.ensureDir(dir); err != nil {
		return newError(op, resolved, ErrInternal, "creating directory "+dir, err)
	}

	if err := s.write(resolved, data); err != nil {
		return newError(op, resolved, ErrInternal, "writing file", err)
	}

	if s.config.Cache != nil {
		_ = s.config.Cache.Set(context.Background(), resolved, data, s.config.CacheTTL)
	}
	return nil
}

func load[T any](s *Store, path string) (T, error) {
	const op = "load"
	var zero T

	resolved, err := s.resolve(op, path)
	if err != nil {
		return zero, err
	}

	res, err, _ := s.group.Do(resolved, func() (any, error) {
		return s.read(resolved)
	})
	if err != nil {
		return zero, err
	}
	data := res.([]byte)

	if len(bytes.TrimSpace(data)) == 0 {
		return zero, newError(op, resolved, ErrData, "file is empty", nil)
	}

	var out *T
	if err := safe.Run(func() error { return s.config.Codec.Decode(data, &out) }); err != nil {
		return zero, newError(op, resolved, ErrDeserialization, "decoding "+s.config.Codec.Name(), err)
	}
	if out == nil {
		return zero, newError(op, resolved, ErrDeserialization, "document decoded to nothing", nil)
	}
	return *out, nil
}

// read returns the raw document, from the cache when possible.
func (s *Store) read(resolved string) ([]byte, error) {
	const op = "load"
	ctx := context.Background()

	if s.config.Cache != nil {
		if data, ok := s.config.Cache.Get(ctx, resolved); ok {
			return data, nil
		}
	}

	exists, err := s.fileExists(resolved)
	if err != nil {
		return nil, newError(op, resolved, ErrInternal, "checking for file", err)
	}
	if !exists {
		return nil, newError(op, resolved, ErrNotFound, "no such file", nil)
	}

	data, err := s.config.FS.ReadFile(resolved)
	if err != nil {
		return nil, newError(op, resolved, ErrInternal, "reading file", err)
	}

	if s.config.Cache != nil {
		_ = s.config.Cache.Set(ctx, resolved, data, s.config.CacheTTL)
	}
	return data, nil
}

func (s *Store) resolve(op, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", newError(op, path, ErrInvalidArgument, "path is empty", nil)
	}
	if !s.config.ExpandEnv {
		return path, nil
	}
	expanded, err := expandEnvStrict(path)
	if err != nil {
		return "", newError(op, path, ErrInvalidArgument, "expanding path", err)
	}
	if strings.TrimSpace(expanded) == "" {
		return "", newError(op, path, ErrInvalidArgument, "path is empty after expansion", nil)
	}
	return expanded, nil
}

// fileExists reports whether a regular file (not a directory) is at path.
func (s *Store) fileExists(path string) (bool, error) {
	info, err := s.config.FS.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *Store) ensureDir(dir string) error {
	if dir == "." {
		return nil
	}
	info, err := s.config.FS.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return s.config.FS.MkdirAll(dir, s.config.DirMode)
}

func (s *Store) write(path string, data []byte) error {
	if !s.config.AtomicWrite {
		return s.config.FS.WriteFile(path, data, s.config.FileMode)
	}

	tmp := filepath.Join(filepath.Dir(path),
		fmt.Sprintf(".%s.%d.tmp", filepath.Base(path), time.Now().UnixNano()))
	if err := s.config.FS.WriteFile(tmp, data, s.config.FileMode); err != nil {
		_ = s.config.FS.Remove(tmp)
		return err
	}
	if err := s.config.FS.Rename(tmp, path); err != nil {
		_ = s.config.FS.Remove(tmp)
		return err
	}
	return nil
}

// report logs a failure diagnostic when a sink is configured and returns err.
func (s *Store) report(err error, site safe.CallSite) error {
	if s.config.Sink == nil {
		return err
	}
	problem := "persistence failed"
	var e *Error
	if errors.As(err, &e) {
		problem = e.Op + " " + e.Path
	}
	s.config.Sink.Log(safe.FormatWithoutError(problem, "jsonsafe", err, site))
	return err
}
