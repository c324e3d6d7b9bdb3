// Package store persists alert subscriptions as a single flat JSON
// document. The whole document is read, mutated in memory, and written
// back; there are no partial writes and no migrations.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ErrNotFound is returned when a subscription key is absent.
var ErrNotFound = errors.New("subscription not found")

// Key identifies a subscription by its target channel and user.
type Key struct {
	ChannelID string
	UserID    string
}

func (k Key) String() string { return k.ChannelID + "/" + k.UserID }

// Subscription is one subscriber to the periodic alert loop.
type Subscription struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Subscription) Key() Key {
	return Key{ChannelID: s.ChannelID, UserID: s.UserID}
}

type document struct {
	Version       int                     `json:"version"`
	Subscriptions map[string]Subscription `json:"subscriptions"`
}

const documentVersion = 1

// FileStore reads and writes the subscription document at one path.
// Not safe for concurrent use; all callers run on the alert loop or a
// request handler, never in parallel.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Add inserts a subscription, reporting whether it was newly created.
// An existing subscription is left untouched so CreatedAt survives
// repeated subscribes.
func (s *FileStore) Add(sub Subscription) (bool, error) {
	doc := s.load()
	key := sub.Key().String()
	if _, ok := doc.Subscriptions[key]; ok {
		return false, nil
	}
	doc.Subscriptions[key] = sub
	if err := s.write(doc); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes a subscription, returning ErrNotFound if absent.
func (s *FileStore) Remove(key Key) error {
	doc := s.load()
	if _, ok := doc.Subscriptions[key.String()]; !ok {
		return ErrNotFound
	}
	delete(doc.Subscriptions, key.String())
	return s.write(doc)
}

// List returns every subscription, oldest first. The slice is a fresh
// copy each call, so callers can iterate while the store is mutated.
func (s *FileStore) List() ([]Subscription, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	subs := make([]Subscription, 0, len(doc.Subscriptions))
	for _, sub := range doc.Subscriptions {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].CreatedAt.Before(subs[j].CreatedAt)
		}
		return subs[i].Key().String() < subs[j].Key().String()
	})
	return subs, nil
}

// load returns the current document, or an empty one when the file is
// missing or unreadable. Treating a corrupt file as empty is the
// documented failure mode: reads degrade to "no subscriptions".
func (s *FileStore) load() document {
	doc := document{Version: documentVersion, Subscriptions: map[string]Subscription{}}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return doc
	}
	var onDisk document
	if err := json.Unmarshal(raw, &onDisk); err != nil || onDisk.Subscriptions == nil {
		return doc
	}
	doc.Subscriptions = onDisk.Subscriptions
	return doc
}

func (s *FileStore) write(doc document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode subscriptions: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "subscriptions-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
