// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package caa

// Authority - the chunk action authority: a pure dispatcher around
// the chunk type registry and a chunk store. It holds no state of its
// own beyond the store reference.
type Authority struct {
	store ChunkStore
}

// New - create an authority bound to a chunk store
func New(store ChunkStore) *Authority {
	return &Authority{store: store}
}

// Get - fetch the (possibly filtered) body for name
func (a *Authority) Get(name []byte, version []byte, publicKey []byte) ([]byte, error) {
	handler, err := handlerFor(name)
	if nil != err {
		return nil, err
	}
	return handler.ProcessGet(name, version, publicKey, a.store)
}

// Store - commit content under name if the handler admits it
func (a *Authority) Store(name []byte, content []byte, publicKey []byte) error {
	handler, err := handlerFor(name)
	if nil != err {
		return err
	}
	if err := handler.ProcessStore(name, content, publicKey, a.store); nil != err {
		return err
	}
	return a.store.Put(name, content)
}

// Delete - remove name; missing chunk is not an error
func (a *Authority) Delete(name []byte, version []byte, ownershipProof []byte, publicKey []byte) error {
	handler, err := handlerFor(name)
	if nil != err {
		return err
	}
	if err := handler.ProcessDelete(name, version, ownershipProof, publicKey, a.store); nil != err {
		return err
	}
	if !a.store.Has(name) {
		return nil
	}
	return a.store.Delete(name)
}

// Modify - compute and commit the post-image the handler prescribes
func (a *Authority) Modify(name []byte, content []byte, version []byte, publicKey []byte) ([]byte, error) {
	handler, err := handlerFor(name)
	if nil != err {
		return nil, err
	}
	newBody, err := handler.ProcessModify(name, content, version, publicKey, a.store)
	if nil != err {
		return nil, err
	}
	if err := a.store.Put(name, newBody); nil != err {
		return nil, err
	}
	return newBody, nil
}

// Has - existence check, subject to handler policy
func (a *Authority) Has(name []byte, version []byte, publicKey []byte) error {
	handler, err := handlerFor(name)
	if nil != err {
		return err
	}
	return handler.ProcessHas(name, version, publicKey, a.store)
}

// IsValid - true if the stored body for name is well formed
func (a *Authority) IsValid(name []byte) bool {
	handler, err := handlerFor(name)
	if nil != err {
		return false
	}
	return handler.IsValid(name, a.store)
}

// Version - the handler's content-hash summary for name
func (a *Authority) Version(name []byte) ([]byte, error) {
	handler, err := handlerFor(name)
	if nil != err {
		return nil, err
	}
	return handler.Version(name, a.store)
}

// IsCacheable - whether the chunk type may be safely cached
func (a *Authority) IsCacheable(name []byte) bool {
	handler, err := handlerFor(name)
	if nil != err {
		return false
	}
	return handler.IsCacheable()
}
