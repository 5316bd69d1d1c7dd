// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chunkstore is a leveldb-backed caa.ChunkStore: a single
// keyspace of chunk-name to chunk-body, with a size accounting field
// separate from the on-disk byte count so a store can be given a
// capacity smaller than the disk it sits on.
package chunkstore

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/maidsafe/vault-manager/fault"
)

// Store - one leveldb database dedicated to a single vault's chunks.
type Store struct {
	mu       sync.Mutex
	db       *leveldb.DB
	capacity int64
	size     int64
}

// Open - open or create the leveldb database at directory, honouring
// an accounting capacity independent of the underlying filesystem's
// own free space.
func Open(directory string, capacity int64) (*Store, error) {
	db, err := leveldb.OpenFile(directory, nil)
	if nil != err {
		return nil, err
	}

	s := &Store{
		db:       db,
		capacity: capacity,
	}
	s.size, err = s.scanSize()
	if nil != err {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) scanSize() (int64, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	var total int64
	for iter.Next() {
		total += int64(len(iter.Value()))
	}
	return total, iter.Error()
}

// Close - release the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get - fetch a chunk body, fault.ErrKeyNotFound if absent
func (s *Store) Get(name []byte) ([]byte, error) {
	value, err := s.db.Get(name, nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.ErrKeyNotFound
	}
	if nil != err {
		return nil, err
	}
	return value, nil
}

// Has - existence check
func (s *Store) Has(name []byte) bool {
	ok, err := s.db.Has(name, nil)
	return nil == err && ok
}

// Put - write or overwrite a chunk body, rejecting writes that would
// exceed capacity
func (s *Store) Put(name []byte, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.db.Get(name, nil)
	existingLen := int64(0)
	if nil == err {
		existingLen = int64(len(existing))
	}

	delta := int64(len(value)) - existingLen
	if s.capacity > 0 && s.size+delta > s.capacity {
		return fault.ErrGeneralError
	}

	if err := s.db.Put(name, value, nil); nil != err {
		return err
	}
	s.size += delta
	return nil
}

// Delete - remove a chunk body; deleting an absent chunk is not an
// error, matching CAA's idempotent-delete contract
func (s *Store) Delete(name []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.db.Get(name, nil)
	if nil != err {
		return nil
	}

	if err := s.db.Delete(name, nil); nil != err {
		return err
	}
	s.size -= int64(len(existing))
	return nil
}

// Size - total bytes committed
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Capacity - the accounting limit passed to Open, 0 meaning unbounded
func (s *Store) Capacity() int64 {
	return s.capacity
}
