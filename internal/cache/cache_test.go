package cache

import (
	"fmt"
	"sort"
	"sync"
	"testing"
)

type snapshot struct {
	Heading string
	Notices int
}

func TestCache_SnapshotsPerLanguage(t *testing.T) {
	c := NewCache[string, *snapshot]()

	testCases := []struct {
		name     string
		language string
		value    *snapshot
	}{
		{"English snapshot", "en", &snapshot{Heading: "Welcome", Notices: 2}},
		{"Spanish snapshot", "es", &snapshot{Heading: "Bienvenidos", Notices: 1}},
		{"Portuguese snapshot", "pt", &snapshot{Heading: "Bem-vindos"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c.Set(tc.language, tc.value)

			got, ok := c.Get(tc.language)
			if !ok {
				t.Fatalf("Expected %s to be cached", tc.language)
			}
			if got != tc.value {
				t.Errorf("Expected the stored pointer back, got %+v", got)
			}
		})
	}

	t.Run("Missing language", func(t *testing.T) {
		if _, ok := c.Get("fr"); ok {
			t.Error("Expected fr to be absent")
		}
	})

	t.Run("Replacing a language keeps the others", func(t *testing.T) {
		c.Set("en", &snapshot{Heading: "Welcome back"})

		en, _ := c.Get("en")
		es, _ := c.Get("es")
		if en.Heading != "Welcome back" {
			t.Errorf("Expected replaced heading, got %q", en.Heading)
		}
		if es.Heading != "Bienvenidos" {
			t.Errorf("Expected es untouched, got %q", es.Heading)
		}
	})

	t.Run("Delete and clear", func(t *testing.T) {
		c.Delete("pt")
		c.Delete("pt")
		if _, ok := c.Get("pt"); ok {
			t.Error("Expected pt to be deleted")
		}

		c.Clear()
		if c.Len() != 0 {
			t.Errorf("Expected empty cache, got %d items", c.Len())
		}
	})
}

func TestCache_SetTo(t *testing.T) {
	c := NewCache[string, int]()
	c.Set("stale", 1)

	c.SetTo(map[string]int{"en": 3, "es": 4})

	if _, ok := c.Get("stale"); ok {
		t.Error("Expected previous items to be replaced")
	}
	if v, _ := c.Get("es"); v != 4 {
		t.Errorf("Expected 4, got %d", v)
	}
}

func TestCache_Concurrency(t *testing.T) {
	c := NewCache[string, int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set(fmt.Sprintf("k-%d-%d", id, j), j)
			}
		}(i)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Get(fmt.Sprintf("k-%d-%d", id, j))
				c.GetOrSet("shared", func() int { return id })
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 50*200+1 {
		t.Errorf("Expected %d items, got %d", 50*200+1, c.Len())
	}
}

func TestCache_GetOrSet(t *testing.T) {
	cache := NewCache[string, int]()
	calls := 0
	fn := func() int {
		calls++
		return 7
	}

	if got := cache.GetOrSet("seven", fn); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
	if got := cache.GetOrSet("seven", fn); got != 7 {
		t.Errorf("Expected cached 7, got %d", got)
	}
	if calls != 1 {
		t.Errorf("Expected fn to run once, ran %d times", calls)
	}
}

func TestCache_LenAndKeys(t *testing.T) {
	cache := NewCache[string, string]()
	cache.Set("en", "Welcome")
	cache.Set("es", "Bienvenidos")

	if cache.Len() != 2 {
		t.Errorf("Expected 2 items, got %d", cache.Len())
	}

	keys := cache.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "en" || keys[1] != "es" {
		t.Errorf("Expected [en es], got %v", keys)
	}
}

func TestRenderedCache(t *testing.T) {
	ClearRendered()

	t.Run("Set and get rendered output", func(t *testing.T) {
		SetRendered("hash", "gruvbox", []byte("highlighted"))

		got, found := GetRendered("hash", "gruvbox")
		if !found {
			t.Fatal("Expected rendered output to be found")
		}
		if string(got) != "highlighted" {
			t.Errorf("Expected %q, got %q", "highlighted", got)
		}
	})

	t.Run("Variants are cached separately", func(t *testing.T) {
		SetRendered("same", "gruvbox", []byte("a"))
		SetRendered("same", "monokai", []byte("b"))

		a, _ := GetRendered("same", "gruvbox")
		b, _ := GetRendered("same", "monokai")
		if string(a) == string(b) {
			t.Error("Expected different output per variant")
		}
	})

	t.Run("Clear rendered cache", func(t *testing.T) {
		ClearRendered()
		if _, found := GetRendered("hash", "gruvbox"); found {
			t.Error("Expected rendered cache to be empty")
		}
	})
}
