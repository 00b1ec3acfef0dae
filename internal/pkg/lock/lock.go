// Package lock provides per-user locking. The free tier caps how many wins
// and jars an account may hold, and enforcing a cap is a count-then-insert
// sequence; serializing each user's mutations keeps two concurrent commands
// from both passing the count check.
package lock

import "sync"

// UserLock serializes mutating operations for a single user.
type UserLock struct {
	locks sync.Map // map[int64]*sync.Mutex
	pool  sync.Pool
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{
		pool: sync.Pool{
			New: func() any {
				return &sync.Mutex{}
			},
		},
	}
}

// getLock retrieves or creates the mutex for the given user ID.
func (ul *UserLock) getLock(userID int64) *sync.Mutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*sync.Mutex)
	}

	newLock := ul.pool.Get().(*sync.Mutex)
	actual, loaded := ul.locks.LoadOrStore(userID, newLock)
	if loaded {
		// Another goroutine stored a mutex first; return ours to the pool.
		ul.pool.Put(newLock)
	}
	return actual.(*sync.Mutex)
}

// Lock acquires the lock for a user. Call it before any operation that
// counts and then mutates the user's wins or jars.
func (ul *UserLock) Lock(userID int64) {
	ul.getLock(userID).Lock()
}

// Unlock releases the lock for a user.
func (ul *UserLock) Unlock(userID int64) {
	if v, ok := ul.locks.Load(userID); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (ul *UserLock) TryLock(userID int64) bool {
	return ul.getLock(userID).TryLock()
}

// WithLock executes fn while holding the user's lock.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}
