package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDDeterministic(t *testing.T) {
	a := UUID("go-workflow:test:key")
	b := UUID("go-workflow:test:key")
	if a == uuid.Nil {
		t.Fatalf("expected non-nil uuid")
	}
	if a != b {
		t.Fatalf("same key must yield the same uuid: %s vs %s", a, b)
	}
	if UUID("go-workflow:test:other") == a {
		t.Fatalf("distinct keys must yield distinct uuids")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if UUID("   ") != uuid.Nil {
		t.Fatalf("blank key must yield uuid.Nil")
	}
}

func TestResourceUUIDNormalizesInputs(t *testing.T) {
	a := ResourceUUID("Page", " About-Us ")
	b := ResourceUUID("page", "about-us")
	if a != b {
		t.Fatalf("type and slug must be normalized before hashing: %s vs %s", a, b)
	}
}

func TestTransitionUUIDSequenced(t *testing.T) {
	resourceID := ResourceUUID("page", "about-us")
	first := TransitionUUID(resourceID, 1)
	second := TransitionUUID(resourceID, 2)
	if first == second {
		t.Fatalf("sequence must disambiguate transition ids")
	}
	if first != TransitionUUID(resourceID, 1) {
		t.Fatalf("transition ids must be deterministic")
	}
}
