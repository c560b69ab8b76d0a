package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

var ErrNotFound = errors.New("game record not found")

// Storage keys. Records live under gamePrefix+id; finishedPrefix orders them
// by completion time so the newest can be listed without decoding every record.
const (
	gamePrefix     = "game/"
	finishedPrefix = "finished/"
)

// Storage archives finished games in BadgerDB.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) an archive in dir.
func Open(dir string) (*Storage, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens an archive that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame stores rec, replacing any earlier record with the same ID.
func (s *Storage) SaveGame(rec model.GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		prev, err := getRecord(txn, rec.ID)
		switch {
		case err == nil:
			if err := txn.Delete(finishedKey(prev)); err != nil {
				return err
			}
		case !errors.Is(err, ErrNotFound):
			return err
		}

		if err := txn.Set(gameKey(rec.ID), data); err != nil {
			return err
		}
		return txn.Set(finishedKey(rec), []byte(rec.ID))
	})
}

// LoadGame returns the record stored for id, or ErrNotFound.
func (s *Storage) LoadGame(id string) (model.GameRecord, error) {
	var rec model.GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, id)
		return err
	})
	return rec, err
}

// ListGames returns up to limit records, most recently finished first.
// A limit of zero or less returns every record.
func (s *Storage) ListGames(limit int) ([]model.GameRecord, error) {
	records := make([]model.GameRecord, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(finishedPrefix)
		// Reverse iteration starts at the last key not greater than the seek key.
		seek := append([]byte(finishedPrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := getRecord(txn, string(id))
			if err != nil {
				return fmt.Errorf("index entry %s: %w", it.Item().Key(), err)
			}
			records = append(records, rec)
		}
		return nil
	})

	return records, err
}

func getRecord(txn *badger.Txn, id string) (model.GameRecord, error) {
	var rec model.GameRecord

	item, err := txn.Get(gameKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	return rec, err
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

// finishedKey sorts lexically by completion time; the ID breaks ties.
func finishedKey(rec model.GameRecord) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", finishedPrefix, rec.FinishedAt.UnixNano(), rec.ID))
}
