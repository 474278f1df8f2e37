package repofake

import (
	"sync"

	"github.com/jrsteele09/go-tutor-portal/storage"
)

var _ storage.Repo = (*FakeStorageRepo)(nil)

// FakeStorageRepo is an in-memory storage.Repo. SetError makes every
// following call fail, which lets tests drive the unhappy storage paths.
type FakeStorageRepo struct {
	values map[string]string
	err    error
	lock   sync.RWMutex
}

func NewFakeStorageRepo() *FakeStorageRepo {
	return &FakeStorageRepo{values: make(map[string]string)}
}

func (r *FakeStorageRepo) SetError(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.err = err
}

func (r *FakeStorageRepo) Get(key string) (string, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.err != nil {
		return "", false, r.err
	}
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *FakeStorageRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return r.err
	}
	r.values[key] = value
	return nil
}

func (r *FakeStorageRepo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return r.err
	}
	delete(r.values, key)
	return nil
}

// Len reports how many keys are stored.
func (r *FakeStorageRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.values)
}
