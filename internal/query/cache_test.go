package query

import (
	"fmt"
	"sync"
	"testing"
)

func TestCache_HitAndMiss(t *testing.T) {
	org := getTestOrg(t)
	cache := NewCache(4)

	if cache.Get(org, `name = "Bob"`) != nil {
		t.Errorf("Expected miss on empty cache")
	}

	parsed, err := Parse(org, `name = "Bob"`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cache.Put(org, `name = "Bob"`, parsed)

	if got := cache.Get(org, `name = "Bob"`); got != parsed {
		t.Errorf("Expected cached query back, got %v", got)
	}
	if cache.Get(org, `name = "Alice"`) != nil {
		t.Errorf("Expected miss for different text")
	}
}

func TestCache_AnonymityKeysSeparately(t *testing.T) {
	// "1234" parses to a tel search normally but an id search when anonymous
	org := getTestOrg(t)
	anonOrg := getAnonTestOrg(t)
	cache := NewCache(4)

	parsed, err := Parse(org, "1234")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cache.Put(org, "1234", parsed)

	if cache.Get(anonOrg, "1234") != nil {
		t.Errorf("Expected anonymous org not to see the non-anonymous parse")
	}
}

func TestCache_EvictsWhenFull(t *testing.T) {
	org := getTestOrg(t)
	cache := NewCache(2)

	for i := 0; i < 3; i++ {
		text := fmt.Sprintf(`name = "c%d"`, i)
		parsed, err := Parse(org, text)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		cache.Put(org, text, parsed)
	}

	// full reset happened at capacity, so only the last entry survives
	if cache.Len() != 1 {
		t.Errorf("Expected 1 entry after eviction, got %d", cache.Len())
	}
}

func TestCache_DisabledAtZeroSize(t *testing.T) {
	org := getTestOrg(t)
	cache := NewCache(0)

	parsed, err := Parse(org, `name = "Bob"`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cache.Put(org, `name = "Bob"`, parsed)
	if cache.Get(org, `name = "Bob"`) != nil {
		t.Errorf("Expected zero-size cache to stay empty")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	org := getTestOrg(t)
	cache := NewCache(64)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				text := fmt.Sprintf(`name = "c%d"`, j%10)
				if cached := cache.Get(org, text); cached != nil {
					continue
				}
				parsed, err := Parse(org, text)
				if err != nil {
					t.Errorf("Parse failed: %v", err)
					return
				}
				cache.Put(org, text, parsed)
			}
		}(i)
	}
	wg.Wait()
}
