// Package session resolves and stores the current identity. The gate is
// the only reader and writer of the session keys in the local store; it
// never touches the network, so bootstrap can resolve it synchronously.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/hardhatlabs/constructpro/internal/logger"
	"github.com/hardhatlabs/constructpro/internal/model"
	"github.com/hardhatlabs/constructpro/internal/store"
)

// KV is the slice of the persistence gateway the gate needs.
type KV interface {
	Get(key string) (value []byte, found bool, err error)
	Put(key string, value []byte) error
	ClearAll()
}

// Gate owns the durable identity and authentication flag that decide
// which data is loaded and whether persistence is permitted.
type Gate struct {
	kv KV
}

// NewGate creates a session gate over the given store.
func NewGate(kv KV) *Gate {
	return &Gate{kv: kv}
}

// Resolve reads the stored identity and auth flag. Any inconsistency (an
// auth flag without an identity, or a corrupt identity record) degrades
// to signed-out; authenticated always implies a non-nil user.
func (g *Gate) Resolve() (*model.User, bool) {
	flag, found, err := g.kv.Get(store.KeyAuth)
	if err != nil {
		logger.Error("Failed to read auth flag", logger.F("error", err))
		return nil, false
	}
	if !found || string(flag) != "true" {
		return nil, false
	}

	raw, found, err := g.kv.Get(store.KeyUser)
	if err != nil || !found {
		logger.Warn("Auth flag set but no stored identity, treating as signed out")
		return nil, false
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		logger.Warn("Stored identity is corrupt, treating as signed out", logger.F("error", err))
		return nil, false
	}
	if user.ID == "" {
		logger.Warn("Stored identity has no id, treating as signed out")
		return nil, false
	}

	return &user, true
}

// SignIn stores the identity and sets the auth flag. The identity is
// written first so a crash between the two writes never yields an auth
// flag without an identity.
func (g *Gate) SignIn(user model.User) error {
	if user.ID == "" {
		return fmt.Errorf("cannot sign in a user without an id")
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize identity: %w", err)
	}
	if err := g.kv.Put(store.KeyUser, raw); err != nil {
		return fmt.Errorf("failed to store identity: %w", err)
	}
	if err := g.kv.Put(store.KeyAuth, []byte("true")); err != nil {
		return fmt.Errorf("failed to store auth flag: %w", err)
	}

	logger.Info("Session established", logger.F("user", user.Username))
	return nil
}

// SignOut clears every managed key, not just the session ones, so no
// collection data leaks into the next session.
func (g *Gate) SignOut() {
	g.kv.ClearAll()
	logger.Info("Session cleared")
}

// Locale returns the stored locale preference, or "en" when unset.
func (g *Gate) Locale() string {
	raw, found, err := g.kv.Get(store.KeyLocale)
	if err != nil || !found || len(raw) == 0 {
		return "en"
	}
	return string(raw)
}

// SetLocale stores the locale preference.
func (g *Gate) SetLocale(locale string) error {
	return g.kv.Put(store.KeyLocale, []byte(locale))
}
