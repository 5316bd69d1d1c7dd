// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package localchunk_test

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/maidsafe/vault-manager/caa"
	"github.com/maidsafe/vault-manager/fault"
	"github.com/maidsafe/vault-manager/identity"
	"github.com/maidsafe/vault-manager/localchunk"
)

type mapStore struct {
	data map[string][]byte
}

func newMapStore() *mapStore { return &mapStore{data: make(map[string][]byte)} }

func (m *mapStore) Get(name []byte) ([]byte, error) {
	v, ok := m.data[string(name)]
	if !ok {
		return nil, fault.ErrKeyNotFound
	}
	return v, nil
}
func (m *mapStore) Has(name []byte) bool { _, ok := m.data[string(name)]; return ok }
func (m *mapStore) Put(name []byte, value []byte) error {
	m.data[string(name)] = value
	return nil
}
func (m *mapStore) Delete(name []byte) error { delete(m.data, string(name)); return nil }
func (m *mapStore) Size() int64              { return int64(len(m.data)) }
func (m *mapStore) Capacity() int64          { return 1 << 30 }

func chunkName(lastByte byte) []byte {
	return append([]byte{0x0a, 0x0b}, lastByte)
}

func sign(keys *identity.KeyPair, message []byte) caa.SignedData {
	return caa.SignedData{Data: message, Signature: identity.Sign(keys.PrivateKey, message)}
}

func TestStoreThenGetChunkRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "localchunk-lock")
	if nil != err {
		t.Fatalf("TempDir failed: %s", err)
	}
	defer os.RemoveAll(dir)

	owner, _ := identity.GenerateKeyPair()
	manager := localchunk.New(newMapStore(), dir, 0, 0)

	flag := byte(caa.AppendableByAll)
	chunk := &caa.AppendableByAllRecord{
		IdentityKey:         sign(owner, []byte("identity")),
		AllowOthersToAppend: sign(owner, []byte{flag}),
	}
	name := chunkName(byte(caa.AppendableByAll))

	if err := manager.StoreChunk(name, chunk.Pack(), owner.PublicKey); nil != err {
		t.Fatalf("StoreChunk failed: %s", err)
	}

	body, err := manager.GetChunk(name, nil, owner.PublicKey, true)
	if nil != err {
		t.Fatalf("GetChunk failed: %s", err)
	}
	got, err := caa.UnpackAppendableByAllRecord(body)
	if nil != err {
		t.Fatalf("GetChunk returned unparseable body: %s", err)
	}
	if 0 != len(got.Appendices) {
		t.Errorf("owner GetChunk returned non-empty appendices")
	}
}

func TestStorageSizeAndCapacity(t *testing.T) {
	dir, err := ioutil.TempDir("", "localchunk-lock")
	if nil != err {
		t.Fatalf("TempDir failed: %s", err)
	}
	defer os.RemoveAll(dir)

	store := newMapStore()
	manager := localchunk.New(store, dir, 0, time.Millisecond)

	if manager.StorageCapacity() != store.Capacity() {
		t.Errorf("StorageCapacity mismatch")
	}
	owner, _ := identity.GenerateKeyPair()
	chunk := &caa.AppendableByAllRecord{
		IdentityKey:         sign(owner, []byte("identity")),
		AllowOthersToAppend: sign(owner, []byte{byte(caa.AppendableByAll)}),
	}
	name := chunkName(byte(caa.AppendableByAll))
	manager.StoreChunk(name, chunk.Pack(), owner.PublicKey)

	if manager.StorageSize() != store.Size() {
		t.Errorf("StorageSize mismatch")
	}
}
