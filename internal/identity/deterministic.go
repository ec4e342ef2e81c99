package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ResourceUUID derives the identifier for a workflow resource.
func ResourceUUID(resourceType, slug string) uuid.UUID {
	return UUID("go-workflow:resource:" + strings.ToLower(strings.TrimSpace(resourceType)) + ":" + strings.ToLower(strings.TrimSpace(slug)))
}

// TransitionUUID derives the identifier for a transition history record.
func TransitionUUID(resourceID uuid.UUID, sequence int) uuid.UUID {
	return UUID("go-workflow:transition:" + resourceID.String() + ":" + strconv.Itoa(sequence))
}
