// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sessions

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_RevokeAndExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	if revoked, _ := s.IsRevoked(ctx, "abc"); revoked {
		t.Fatal("unknown id should not be revoked")
	}

	if err := s.Revoke(ctx, "abc", time.Hour); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if revoked, _ := s.IsRevoked(ctx, "abc"); !revoked {
		t.Error("id should be revoked within its ttl")
	}

	now = now.Add(time.Hour)
	if revoked, _ := s.IsRevoked(ctx, "abc"); revoked {
		t.Error("revocation should lapse once the token would have expired")
	}
}

func TestMemoryStore_IgnoresEmptyInput(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tests := []struct {
		name string
		jti  string
		ttl  time.Duration
	}{
		{"empty jti", "", time.Hour},
		{"zero ttl", "abc", 0},
		{"negative ttl", "abc", -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Revoke(ctx, tt.jti, tt.ttl); err != nil {
				t.Fatalf("Revoke() error = %v", err)
			}
			if revoked, _ := s.IsRevoked(ctx, tt.jti); revoked {
				t.Error("nothing should have been revoked")
			}
		})
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("token-%d", i)
			s.Revoke(ctx, id, time.Minute)
			s.IsRevoked(ctx, id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		if revoked, _ := s.IsRevoked(ctx, fmt.Sprintf("token-%d", i)); !revoked {
			t.Errorf("token-%d should be revoked", i)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*RedisStore)(nil)
