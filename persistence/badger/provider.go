// Copyright 2024 go-dataspace
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/persistence"
)

const (
	gcInterval   = 5 * time.Minute
	seqBandwidth = 100
)

var _ persistence.StorageProvider = &StorageProvider{}

// StorageProvider is a badger backed persistence.StorageProvider.
type StorageProvider struct {
	ctx    context.Context
	cancel context.CancelFunc
	db     *badger.DB

	seqMu sync.Mutex
	seqs  map[string]*badger.Sequence
}

// New returns a new badger storage provider, using an inMemory setup if the boolean is set,
// or it will create/reuse the badger database located in dbPath.
func New(ctx context.Context, inMemory bool, dbPath string) (*StorageProvider, error) {
	var opt badger.Options
	var dbType string
	if inMemory {
		opt = badger.DefaultOptions("").WithInMemory(true)
		dbType = "memory"
	} else {
		opt = badger.DefaultOptions(dbPath)
		dbType = "disk"
	}

	ctx, logger := logging.InjectLabels(ctx,
		"module", "badger",
		"db_type", dbType,
		"db_path", dbPath,
	)
	opt = opt.WithLogger(logAdaptor{logger})
	db, err := badger.Open(opt)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	sp := &StorageProvider{
		ctx:    ctx,
		cancel: cancel,
		db:     db,
		seqs:   make(map[string]*badger.Sequence),
	}
	if !inMemory {
		go sp.maintenance()
	}
	return sp, nil
}

// Close releases the sequences and closes the database.
func (sp *StorageProvider) Close() error {
	sp.cancel()
	sp.seqMu.Lock()
	defer sp.seqMu.Unlock()
	var err error
	for _, s := range sp.seqs {
		err = errors.Join(err, s.Release())
	}
	sp.seqs = map[string]*badger.Sequence{}
	return errors.Join(err, sp.db.Close())
}

// maintenance is a goroutine that runs the badger garbage collection every gcInterval.
func (sp *StorageProvider) maintenance() {
	logger := logging.Extract(sp.ctx)
	logger.Info("Starting database maintenance loop")
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			logger.Debug("Garbage collection starting")
			err := sp.db.RunValueLogGC(0.7)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logger.Error("GC not completed cleanly", "err", err)
			}
		case <-sp.ctx.Done():
			return
		}
	}
}

// nextID returns the next ID of the named sequence. IDs start at 1.
func (sp *StorageProvider) nextID(name string) (int64, error) {
	sp.seqMu.Lock()
	defer sp.seqMu.Unlock()
	seq, ok := sp.seqs[name]
	if !ok {
		var err error
		seq, err = sp.db.GetSequence([]byte("seq-"+name), seqBandwidth)
		if err != nil {
			return 0, fmt.Errorf("could not get sequence %s: %w", name, err)
		}
		sp.seqs[name] = seq
	}
	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	return int64(n) + 1, nil //nolint:gosec // sequences never get near the int64 limit.
}

func mkKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s-%020d", prefix, id))
}

func encode[T any](thing T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(thing); err != nil {
		return nil, fmt.Errorf("could not encode %T: %w", thing, err)
	}
	return buf.Bytes(), nil
}

func decode[T any](b []byte) (*T, error) {
	var thing T
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&thing); err != nil {
		return nil, fmt.Errorf("could not decode bytes into %T: %w", thing, err)
	}
	return &thing, nil
}

// getAll returns all decoded values that match a prefix.
func getAll[T any](db *badger.DB, prefix []byte) ([]*T, error) {
	values := make([]*T, 0)
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				thing, err := decode[T](v)
				if err != nil {
					return err
				}
				values = append(values, thing)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// get fetches the bytes from the database and decodes them.
func get[T any](db *badger.DB, key []byte) (*T, error) {
	var b []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		b, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, persistence.ErrNotFound
		}
		return nil, err
	}
	return decode[T](b)
}

func put[T any](db *badger.DB, key []byte, thing T) error {
	b, err := encode(thing)
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, b)
	})
}

// del deletes a key, returning persistence.ErrNotFound when it doesn't exist.
func del(db *badger.DB, key []byte) error {
	return db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return persistence.ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}

// logAdaptor makes slog usable as a badger logger.
type logAdaptor struct {
	l *slog.Logger
}

func (la logAdaptor) Errorf(f string, v ...any) {
	la.l.Error(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (la logAdaptor) Warningf(f string, v ...any) {
	la.l.Warn(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (la logAdaptor) Infof(f string, v ...any) {
	la.l.Debug(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (la logAdaptor) Debugf(f string, v ...any) {
	la.l.Debug(strings.TrimSpace(fmt.Sprintf(f, v...)))
}
