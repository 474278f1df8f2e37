package fakeuserrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jrsteele09/go-tutor-portal/users"
)

var _ users.Directory = (*FakeDirectory)(nil)

type FakeDirectory struct {
	users      map[string]users.Summary
	stats      map[string]*users.Stats
	broadcasts []users.BroadcastForm
	lock       sync.RWMutex
}

func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{
		users: make(map[string]users.Summary),
		stats: make(map[string]*users.Stats),
	}
}

func (d *FakeDirectory) Upsert(summary users.Summary, stats *users.Stats) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.users[summary.Username] = summary
	if stats != nil {
		d.stats[summary.Username] = stats
	}
}

func (d *FakeDirectory) List(_ context.Context) ([]users.Summary, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	list := make([]users.Summary, 0, len(d.users))
	for _, u := range d.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Username < list[j].Username
	})
	return list, nil
}

func (d *FakeDirectory) Delete(_ context.Context, username string) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if _, ok := d.users[username]; !ok {
		return errors.New("not found")
	}
	delete(d.users, username)
	delete(d.stats, username)
	return nil
}

func (d *FakeDirectory) Stats(_ context.Context, username string) (*users.Stats, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if _, ok := d.users[username]; !ok {
		return nil, errors.New("not found")
	}
	if s, ok := d.stats[username]; ok {
		return s, nil
	}
	return &users.Stats{}, nil
}

func (d *FakeDirectory) Broadcast(_ context.Context, form users.BroadcastForm) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.broadcasts = append(d.broadcasts, form)
	return nil
}

func (d *FakeDirectory) Broadcasts() []users.BroadcastForm {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return append([]users.BroadcastForm(nil), d.broadcasts...)
}
