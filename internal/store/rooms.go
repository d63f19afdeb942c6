// Package store persists study-room records in BadgerDB. Live membership is
// never stored here; the coordination layer rebuilds from zero on restart.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"studyhall/internal/domain"
)

const roomKeyPrefix = "room:"

var ErrRoomExists = errors.New("room already exists")

type Rooms struct {
	db *badger.DB
}

// Open opens the room store at path. An empty path opens an in-memory store,
// used by tests.
func Open(path string) (*Rooms, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open room store: %w", err)
	}
	log.Info().Str("module", "store.rooms").Str("path", path).Msg("room store opened")
	return &Rooms{db: db}, nil
}

func (r *Rooms) Close() error {
	return r.db.Close()
}

// Create persists a new room record, assigning id and creation time.
func (r *Rooms) Create(room *domain.Room) error {
	if room.ID == "" {
		room.ID = domain.RoomID(uuid.NewString())
	}
	if room.MaxParticipants <= 0 {
		room.MaxParticipants = domain.DefaultMaxParticipants
	}
	room.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := roomKey(room.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrRoomExists
		}
		return txn.Set(key, data)
	})
}

// Get returns the room record, or nil when no such room exists.
func (r *Rooms) Get(id domain.RoomID) (*domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &room)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", id, err)
	}
	return &room, nil
}

// Exists reports whether a room record is present.
func (r *Rooms) Exists(id domain.RoomID) (bool, error) {
	room, err := r.Get(id)
	if err != nil {
		return false, err
	}
	return room != nil, nil
}

// List returns all room records.
func (r *Rooms) List() ([]*domain.Room, error) {
	var out []*domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(roomKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var room domain.Room
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &room)
			})
			if err != nil {
				return err
			}
			out = append(out, &room)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return out, nil
}

func roomKey(id domain.RoomID) []byte {
	return []byte(roomKeyPrefix + string(id))
}
