// Property-based tests for per-user locking.
package lock

import (
	"sync"
	"testing"

	"pgregory.net/rapid"
)

// TestUserLockMutualExclusionProperty verifies that for any number of
// goroutines incrementing a shared counter under the same user's lock,
// no increment is lost.
func TestUserLockMutualExclusionProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		goroutines := rapid.IntRange(1, 32).Draw(rt, "goroutines")
		increments := rapid.IntRange(1, 100).Draw(rt, "increments")
		userID := rapid.Int64Range(1, 1000).Draw(rt, "userID")

		ul := NewUserLock()
		counter := 0

		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < increments; i++ {
					ul.Lock(userID)
					counter++
					ul.Unlock(userID)
				}
			}()
		}
		wg.Wait()

		if counter != goroutines*increments {
			rt.Fatalf("lost increments: got %d, want %d", counter, goroutines*increments)
		}
	})
}

// TestUserLockIndependentUsers verifies that locks for different users do
// not block each other: holding user A's lock must not prevent acquiring
// user B's lock.
func TestUserLockIndependentUsers(t *testing.T) {
	ul := NewUserLock()

	ul.Lock(1)
	defer ul.Unlock(1)

	if !ul.TryLock(2) {
		t.Fatal("lock for user 2 should be free while user 1 is held")
	}
	ul.Unlock(2)
}

// TestUserLockTryLock verifies TryLock fails while the lock is held and
// succeeds after release.
func TestUserLockTryLock(t *testing.T) {
	ul := NewUserLock()

	ul.Lock(7)
	if ul.TryLock(7) {
		t.Fatal("TryLock should fail while lock is held")
	}
	ul.Unlock(7)

	if !ul.TryLock(7) {
		t.Fatal("TryLock should succeed after release")
	}
	ul.Unlock(7)
}

// TestWithLock verifies WithLock releases the lock even when fn errors.
func TestWithLock(t *testing.T) {
	ul := NewUserLock()

	called := false
	err := ul.WithLock(3, func() error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("WithLock did not run fn cleanly: %v", err)
	}

	if !ul.TryLock(3) {
		t.Fatal("lock should be released after WithLock returns")
	}
	ul.Unlock(3)
}
