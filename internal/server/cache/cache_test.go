package cache

import (
	"testing"

	"github.com/scholarsearch/retrieval-platform/pkg/config"
)

func TestBuildKeyNormalizesTermOrder(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	ab := c.buildKey("bm25", "vaccine trial", 5)
	ba := c.buildKey("bm25", "trial vaccine", 5)
	if ab != ba {
		t.Errorf("reordered query produced different keys: %s vs %s", ab, ba)
	}
}

func TestBuildKeyVectorPreservesTermOrder(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	// Vector queries rank by bigram features too, so "vaccine trial" and
	// "trial vaccine" score documents differently and must not share a key.
	ab := c.buildKey("vector", "vaccine trial", 5)
	ba := c.buildKey("vector", "trial vaccine", 5)
	if ab == ba {
		t.Errorf("reordered vector queries collided on key %s", ab)
	}
	if again := c.buildKey("vector", "vaccine trial", 5); again != ab {
		t.Errorf("identical vector query produced different keys: %s vs %s", again, ab)
	}
}

func TestBuildKeyDiscriminates(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	base := c.buildKey("bm25", "vaccine trial", 5)
	if got := c.buildKey("vector", "vaccine trial", 5); got == base {
		t.Error("different models share a key")
	}
	if got := c.buildKey("bm25", "vaccine safety", 5); got == base {
		t.Error("different queries share a key")
	}
	if got := c.buildKey("bm25", "vaccine trial", 10); got == base {
		t.Error("different limits share a key")
	}
}

func TestBuildKeyAppliesNormalization(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	// Case, punctuation, and inflection collapse to the same terms.
	a := c.buildKey("bm25", "Vaccine Trials!", 5)
	b := c.buildKey("bm25", "vaccine trial", 5)
	if a != b {
		t.Errorf("normalized variants produced different keys: %s vs %s", a, b)
	}
}
