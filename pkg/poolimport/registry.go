package poolimport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record keys for the three projections an accepted import writes.
const (
	RecordKeyFull        = "auth/user-pool/full"
	RecordKeyReduced     = "auth/user-pool/reduced"
	RecordKeyCredentials = "auth/user-pool/credentials"
)

// Record is one keyed resource entry in the project's resource registry.
// Secret-classified records carry credentials and must be routed to secrets
// storage by the registry implementation or its caller.
type Record struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	Secret    bool            `json:"secret,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	SavedAt   time.Time       `json:"saved_at"`
}

// Registry is the persistence boundary for import outputs: a plain key-value
// record store. The core defines the record shape, not the on-disk format.
type Registry interface {
	// Save stores a record, replacing any existing record with the same key.
	Save(ctx context.Context, rec Record) error

	// Get retrieves a record by key.
	Get(ctx context.Context, key string) (*Record, error)

	// Delete removes a record. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all stored records.
	List(ctx context.Context) ([]Record, error)
}

// RegistryVersion is the current schema version for file-backed registries.
const RegistryVersion = 1

// registryData is the serializable registry format.
type registryData struct {
	Version   int               `json:"version"`
	Records   map[string]Record `json:"records"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// MemoryRegistry is an in-memory Registry implementation for testing.
type MemoryRegistry struct {
	mu   sync.RWMutex
	data registryData
}

// NewMemoryRegistry creates a new in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		data: registryData{
			Version:   RegistryVersion,
			Records:   make(map[string]Record),
			UpdatedAt: time.Now(),
		},
	}
}

// Save implements Registry.
func (r *MemoryRegistry) Save(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data.Records[rec.Key] = rec
	r.data.UpdatedAt = time.Now()
	return nil
}

// Get implements Registry.
func (r *MemoryRegistry) Get(ctx context.Context, key string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.data.Records[key]
	if !exists {
		return nil, ErrNotFound("record", key)
	}
	return &rec, nil
}

// Delete implements Registry.
func (r *MemoryRegistry) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data.Records, key)
	r.data.UpdatedAt = time.Now()
	return nil
}

// List implements Registry.
func (r *MemoryRegistry) List(ctx context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]Record, 0, len(r.data.Records))
	for _, rec := range r.data.Records {
		recs = append(recs, rec)
	}
	return recs, nil
}

// FileRegistry is a file-backed Registry implementation.
type FileRegistry struct {
	mu       sync.RWMutex
	filePath string
	data     registryData
}

// NewFileRegistry creates a file-backed registry, loading existing state if
// the file is present.
func NewFileRegistry(filePath string) (*FileRegistry, error) {
	r := &FileRegistry{
		filePath: filePath,
		data: registryData{
			Version:   RegistryVersion,
			Records:   make(map[string]Record),
			UpdatedAt: time.Now(),
		},
	}

	if err := r.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return r, nil
}

// load reads registry state from file.
func (r *FileRegistry) load() error {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return err
	}

	var data registryData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("invalid registry file format: %w", err)
	}
	if data.Version != RegistryVersion {
		return fmt.Errorf("unsupported registry version: %d", data.Version)
	}
	if data.Records == nil {
		data.Records = make(map[string]Record)
	}

	r.data = data
	return nil
}

// save writes registry state to file atomically.
func (r *FileRegistry) save() error {
	r.data.UpdatedAt = time.Now()

	raw, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmpFile := r.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0600); err != nil {
		return fmt.Errorf("failed to write temp registry file: %w", err)
	}
	if err := os.Rename(tmpFile, r.filePath); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename registry file: %w", err)
	}
	return nil
}

// Save implements Registry.
func (r *FileRegistry) Save(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data.Records[rec.Key] = rec
	return r.save()
}

// Get implements Registry.
func (r *FileRegistry) Get(ctx context.Context, key string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.data.Records[key]
	if !exists {
		return nil, ErrNotFound("record", key)
	}
	return &rec, nil
}

// Delete implements Registry.
func (r *FileRegistry) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data.Records[key]; !exists {
		return nil // Idempotent
	}
	delete(r.data.Records, key)
	return r.save()
}

// List implements Registry.
func (r *FileRegistry) List(ctx context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]Record, 0, len(r.data.Records))
	for _, rec := range r.data.Records {
		recs = append(recs, rec)
	}
	return recs, nil
}

// DefaultRegistryPath returns the default path for the resource registry.
func DefaultRegistryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".poolimport", "registry.json")
}

// WriteResult persists the three projections of an accepted import. The
// reduced and full records travel together; credentials go into a separate
// secret-classified record only when OAuth was imported.
func WriteResult(ctx context.Context, reg Registry, result *ImportResult) error {
	now := time.Now()

	save := func(key string, value any, secret bool) error {
		raw, err := json.Marshal(value)
		if err != nil {
			return ErrInternal("failed to marshal registry record").WithCause(err)
		}
		return reg.Save(ctx, Record{
			Key:       key,
			Value:     raw,
			Secret:    secret,
			SessionID: result.SessionID,
			SavedAt:   now,
		})
	}

	if err := save(RecordKeyFull, result.Full, false); err != nil {
		return err
	}
	if err := save(RecordKeyReduced, result.Reduced, false); err != nil {
		return err
	}
	if result.Credentials != nil {
		if err := save(RecordKeyCredentials, result.Credentials, true); err != nil {
			return err
		}
	}
	return nil
}
