// Property-based tests for per-user serialization. The free-tier cap is a
// count-then-insert sequence, so the lock must make concurrent inserts for
// the same user behave as if they ran one at a time.
package lock

import (
	"sync"
	"testing"

	"pgregory.net/rapid"
)

// TestCountThenInsertSafetyProperty checks that for any number of concurrent
// capped inserts on one user, the final count never exceeds the cap.
func TestCountThenInsertSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cap := rapid.IntRange(1, 20).Draw(t, "cap")
		attempts := rapid.IntRange(1, 40).Draw(t, "attempts")
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")

		ul := NewUserLock()
		count := 0

		var wg sync.WaitGroup
		wg.Add(attempts)
		for i := 0; i < attempts; i++ {
			go func() {
				defer wg.Done()
				ul.Lock(userID)
				defer ul.Unlock(userID)
				// Unsynchronized read-check-write; only the lock protects it.
				if count < cap {
					count++
				}
			}()
		}
		wg.Wait()

		expected := attempts
		if expected > cap {
			expected = cap
		}
		if count != expected {
			t.Fatalf("final count %d, want %d (cap %d, attempts %d)", count, expected, cap, attempts)
		}
	})
}

// TestDistinctUsersIndependentProperty checks that locks for distinct users
// don't serialize against each other's counters.
func TestDistinctUsersIndependentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numUsers := rapid.IntRange(2, 10).Draw(t, "numUsers")
		opsPerUser := rapid.IntRange(1, 30).Draw(t, "opsPerUser")

		ul := NewUserLock()
		counts := make([]int, numUsers)

		var wg sync.WaitGroup
		wg.Add(numUsers * opsPerUser)
		for u := 0; u < numUsers; u++ {
			for i := 0; i < opsPerUser; i++ {
				go func(u int) {
					defer wg.Done()
					ul.Lock(int64(u))
					defer ul.Unlock(int64(u))
					counts[u]++
				}(u)
			}
		}
		wg.Wait()

		for u, c := range counts {
			if c != opsPerUser {
				t.Fatalf("user %d count %d, want %d", u, c, opsPerUser)
			}
		}
	})
}

func TestTryLock(t *testing.T) {
	ul := NewUserLock()

	ul.Lock(1)
	if ul.TryLock(1) {
		t.Fatal("TryLock succeeded while lock held")
	}
	if !ul.TryLock(2) {
		t.Fatal("TryLock failed for a different user")
	}
	ul.Unlock(2)
	ul.Unlock(1)

	if !ul.TryLock(1) {
		t.Fatal("TryLock failed after unlock")
	}
	ul.Unlock(1)
}
