// Package store persists amortization state behind a small key/value
// interface. Values are opaque bytes; State is the JSON document the
// applications keep in it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
)

// ErrNotFound is returned by Load when nothing is stored under a key.
var ErrNotFound = errors.New("store: key not found")

// ErrInvalidKey is returned for keys that cannot name a stored state.
var ErrInvalidKey = errors.New("store: invalid key")

// ValidateKey rejects empty keys, path separators and the dot directories.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return nil
}

// Store is a key/value persistence backend. Implementations are safe for
// concurrent use.
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// State is everything needed to restore a calculation: the raw inputs as
// entered plus the schedule computed from them.
type State struct {
	ID        string                     `json:"id"`
	Inputs    amortization.RawLoanInputs `json:"inputs"`
	Overrides []amortization.RawOverride `json:"overrides,omitempty"`
	StartDate string                     `json:"startDate,omitempty"`
	Rows      []amortization.Row         `json:"rows"`
	Summary   amortization.Summary       `json:"summary"`
	SavedAt   time.Time                  `json:"savedAt"`
}

// Config selects and configures a backend.
type Config struct {
	Driver   string `yaml:"driver,omitempty" mapstructure:"driver"`     // memory, file, redis, postgres
	Key      string `yaml:"key,omitempty" mapstructure:"key"`           // default key for CLI saves
	Path     string `yaml:"path,omitempty" mapstructure:"path"`         // file driver directory
	Addr     string `yaml:"addr,omitempty" mapstructure:"addr"`         // redis address
	Password string `yaml:"password,omitempty" mapstructure:"password"` // redis password
	DB       int    `yaml:"db,omitempty" mapstructure:"db"`             // redis database
	TTL      string `yaml:"ttl,omitempty" mapstructure:"ttl"`           // redis expiry, e.g. "720h"
	DSN      string `yaml:"dsn,omitempty" mapstructure:"dsn"`           // postgres connection string
	Table    string `yaml:"table,omitempty" mapstructure:"table"`       // postgres table
}

// DefaultKey returns the configured key or the application default.
func (c Config) DefaultKey() string {
	if key := strings.TrimSpace(c.Key); key != "" {
		return key
	}
	return constants.DefaultStateKey
}

// New opens the backend named by cfg.Driver. An empty driver selects the
// in-memory store.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.TrimSpace(cfg.Driver) {
	case "", constants.StorageDriverMemory:
		return NewMemoryStore(), nil
	case constants.StorageDriverFile:
		return NewFileStore(cfg.Path)
	case constants.StorageDriverRedis:
		var ttl time.Duration
		if strings.TrimSpace(cfg.TTL) != "" {
			parsed, err := time.ParseDuration(cfg.TTL)
			if err != nil {
				return nil, fmt.Errorf("store: invalid redis ttl %q: %w", cfg.TTL, err)
			}
			ttl = parsed
		}
		return NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			TTL:      ttl,
		})
	case constants.StorageDriverPostgres:
		return NewPostgresStore(ctx, cfg.DSN, cfg.Table)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}
}

// NewKey returns a fresh random key for a state document.
func NewKey() string {
	return uuid.NewString()
}

// SaveState stamps and serializes state under key.
func SaveState(ctx context.Context, s Store, key string, state State) (State, error) {
	if err := ValidateKey(key); err != nil {
		return State{}, err
	}
	if state.ID == "" {
		state.ID = key
	}
	state.SavedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		return State{}, fmt.Errorf("store: encode state: %w", err)
	}
	if err := s.Save(ctx, key, data); err != nil {
		return State{}, err
	}
	return state, nil
}

// LoadState reads the state document stored under key.
func LoadState(ctx context.Context, s Store, key string) (State, error) {
	data, err := s.Load(ctx, key)
	if err != nil {
		return State{}, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("store: decode state %q: %w", key, err)
	}
	return state, nil
}
