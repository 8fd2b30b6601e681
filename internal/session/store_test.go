package session

import (
	"sync"
	"testing"
	"time"

	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stack(levels ...domain.Level) []domain.DialogState {
	var s []domain.DialogState
	for _, l := range levels {
		s = append(s, domain.DialogState{Level: l})
	}
	return s
}

func TestStore_GetMissingToken(t *testing.T) {
	s := NewStore(15 * time.Minute)
	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStore_PutGetDelete(t *testing.T) {
	s := NewStore(15 * time.Minute)
	s.Put("tok", stack(domain.LevelHome))

	got, ok := s.Get("tok")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, domain.LevelHome, got[0].Level)

	s.Delete("tok")
	_, ok = s.Get("tok")
	assert.False(t, ok)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore(15 * time.Minute)
	s.Put("tok", []domain.DialogState{{Level: domain.LevelHome, Message: "menu"}})

	got, ok := s.Get("tok")
	require.True(t, ok)
	got[0].Message = "mutated"

	again, ok := s.Get("tok")
	require.True(t, ok)
	assert.Equal(t, "menu", again[0].Message)
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	s := NewStore(15 * time.Minute)
	base := time.Now()
	s.now = func() time.Time { return base }

	s.Put("tok", stack(domain.LevelHome))

	s.now = func() time.Time { return base.Add(14 * time.Minute) }
	_, ok := s.Get("tok")
	assert.True(t, ok)

	s.now = func() time.Time { return base.Add(16 * time.Minute) }
	_, ok = s.Get("tok")
	assert.False(t, ok)
}

func TestStore_PutSlidesExpiry(t *testing.T) {
	s := NewStore(15 * time.Minute)
	base := time.Now()
	s.now = func() time.Time { return base }

	s.Put("tok", stack(domain.LevelHome))

	// A write at minute 10 pushes the window to minute 25.
	s.now = func() time.Time { return base.Add(10 * time.Minute) }
	s.Put("tok", stack(domain.LevelHome, domain.LevelLoanAmount))

	s.now = func() time.Time { return base.Add(20 * time.Minute) }
	got, ok := s.Get("tok")
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestStore_Len_SkipsExpired(t *testing.T) {
	s := NewStore(15 * time.Minute)
	base := time.Now()
	s.now = func() time.Time { return base }

	s.Put("a", stack(domain.LevelHome))

	s.now = func() time.Time { return base.Add(10 * time.Minute) }
	s.Put("b", stack(domain.LevelHome))
	assert.Equal(t, 2, s.Len())

	s.now = func() time.Time { return base.Add(20 * time.Minute) }
	assert.Equal(t, 1, s.Len())
}

func TestStore_AcquireSerialisesPerToken(t *testing.T) {
	s := NewStore(15 * time.Minute)

	const workers = 8
	var inside, maxInside int
	var check sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := s.Acquire("tok")
			defer release()

			check.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			check.Unlock()

			time.Sleep(time.Millisecond)

			check.Lock()
			inside--
			check.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside, "critical section admitted more than one holder")
	s.mu.Lock()
	assert.Empty(t, s.locks, "released locks must be reclaimed")
	s.mu.Unlock()
}

func TestStore_AcquireDifferentTokensDoNotBlock(t *testing.T) {
	s := NewStore(15 * time.Minute)

	releaseA := s.Acquire("a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := s.Acquire("b")
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Acquire on a different token blocked")
	}
}
