package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/hardhatlabs/constructpro/internal/logger"
	"github.com/hardhatlabs/constructpro/internal/model"
)

// Storage keys for locally persisted collections. One key per collection,
// each holding a JSON array. Keys are stable: changing one orphans the
// data persisted under the old name.
const (
	KeyPersonnel    = "constructProPersonnel"
	KeyMaterials    = "constructProMaterials"
	KeyTransactions = "constructProTransactions"
	KeyLabTests     = "constructProLabTests"
	KeyListings     = "constructProListings"
	KeySiteTasks    = "constructProSiteTasks"
)

// Storage keys for session state.
const (
	KeyUser   = "constructProUser"
	KeyAuth   = "constructProAuth"
	KeyLocale = "constructProLocale"
)

// Logical collection names.
const (
	ColPersonnel    = "personnel"
	ColMaterials    = "materials"
	ColTransactions = "transactions"
	ColLabTests     = "labTests"
	ColListings     = "listings"
	ColSiteTasks    = "siteTasks"
)

type collectionSpec struct {
	key  string
	seed func() any
}

// collections maps logical collection names to storage keys and default
// seed data. Projects are deliberately absent: they live on the server.
var collections = map[string]collectionSpec{
	ColPersonnel:    {KeyPersonnel, func() any { return model.DefaultPersonnel() }},
	ColMaterials:    {KeyMaterials, func() any { return model.DefaultMaterials() }},
	ColTransactions: {KeyTransactions, func() any { return model.DefaultTransactions() }},
	ColLabTests:     {KeyLabTests, func() any { return model.DefaultLabTests() }},
	ColListings:     {KeyListings, func() any { return model.DefaultListings() }},
	ColSiteTasks:    {KeySiteTasks, func() any { return model.DefaultSiteTasks() }},
}

// collectionOrder is the stable load order.
var collectionOrder = []string{
	ColPersonnel, ColMaterials, ColTransactions, ColLabTests, ColListings, ColSiteTasks,
}

// CollectionNames returns every locally persisted collection name in
// stable order.
func CollectionNames() []string {
	out := make([]string, len(collectionOrder))
	copy(out, collectionOrder)
	return out
}

// KeyFor returns the storage key for a logical collection name, or ""
// when the name is unknown.
func KeyFor(name string) string {
	return collections[name].key
}

// managedKeys are all keys owned by the gateway, cleared on logout.
var managedKeys = []string{
	KeyPersonnel, KeyMaterials, KeyTransactions, KeyLabTests, KeyListings, KeySiteTasks,
	KeyUser, KeyAuth, KeyLocale,
}

// LoadResult is the outcome of a batch load. Data always holds an entry
// for every requested collection; Errors is nil when every read was clean.
type LoadResult struct {
	Data   map[string]json.RawMessage
	Errors map[string]string
}

// Gateway reads and writes named collections in a durable local BadgerDB
// store. All failures are recovered at this boundary: reads fall back to
// default seeds, writes log and drop the error. Nothing here ever
// propagates a storage failure to the UI.
type Gateway struct {
	db *badger.DB
}

// OpenGateway opens (or creates) the local store at dir.
func OpenGateway(dir string) (*Gateway, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return &Gateway{db: db}, nil
}

// OpenGatewayInMemory opens a store that lives only in memory. Used by
// tests; data is lost on Close.
func OpenGatewayInMemory() (*Gateway, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}
	return &Gateway{db: db}, nil
}

// Close closes the underlying store.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// Load reads the named collections. A missing key yields the collection's
// built-in seed; a corrupt value logs, records an entry in Errors, and
// yields the seed. Load never fails the batch and never returns an error
// for a single bad collection.
func (g *Gateway) Load(names []string) LoadResult {
	res := LoadResult{Data: make(map[string]json.RawMessage, len(names))}

	for _, name := range names {
		spec, ok := collections[name]
		if !ok {
			logger.Warn("Load requested for unknown collection", logger.F("name", name))
			res.setError(name, "unknown collection")
			continue
		}

		raw, found, err := g.Get(spec.key)
		if err != nil {
			logger.Error("Failed to read collection, using defaults",
				logger.F("name", name), logger.F("error", err))
			res.setError(name, err.Error())
			res.Data[name] = seedJSON(spec)
			continue
		}
		if !found {
			res.Data[name] = seedJSON(spec)
			continue
		}
		if !json.Valid(raw) || !isJSONArray(raw) {
			logger.Error("Stored collection is corrupt, using defaults",
				logger.F("name", name), logger.F("key", spec.key))
			res.setError(name, "corrupt stored value")
			res.Data[name] = seedJSON(spec)
			continue
		}
		res.Data[name] = json.RawMessage(raw)
	}

	return res
}

func (r *LoadResult) setError(name, msg string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[name] = msg
}

func seedJSON(spec collectionSpec) json.RawMessage {
	data, err := json.Marshal(spec.seed())
	if err != nil {
		// Seeds are static data; this cannot happen for well-formed seeds.
		logger.Error("Failed to marshal seed data", logger.F("error", err))
		return json.RawMessage("[]")
	}
	return data
}

func isJSONArray(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// Save persists a collection under its storage key. A nil value is a
// programmer error and is dropped with a warning; an empty array is a
// valid, persisted state. Serialization and storage failures are logged
// and swallowed: persistence is never fatal to the caller.
func (g *Gateway) Save(key string, data any) {
	if data == nil {
		logger.Warn("Refusing to persist nil collection", logger.F("key", key))
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		logger.Error("Failed to serialize collection", logger.F("key", key), logger.F("error", err))
		return
	}

	if err := g.Put(key, raw); err != nil {
		logger.Error("Failed to persist collection", logger.F("key", key), logger.F("error", err))
	}
}

// Get reads a raw value. found is false when the key has never been set.
func (g *Gateway) Get(key string) (value []byte, found bool, err error) {
	err = g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}

// Put writes a raw value.
func (g *Gateway) Put(key string, value []byte) error {
	return g.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// ClearOne removes a single managed key.
func (g *Gateway) ClearOne(key string) {
	err := g.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		logger.Error("Failed to clear key", logger.F("key", key), logger.F("error", err))
	}
}

// ClearAll removes every managed key. Called on logout so data cannot
// leak across sessions.
func (g *Gateway) ClearAll() {
	err := g.db.Update(func(txn *badger.Txn) error {
		for _, key := range managedKeys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to clear local store", logger.F("error", err))
	}
}
