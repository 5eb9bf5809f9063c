package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from key using go-hashid, falling back to
// a SHA1 name based UUID when hashing fails.
//
// Keys must be prefixed by entity type so different records cannot collide.
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

// MappingRecordUUID identifies the stored association of one block with a post.
func MappingRecordUUID(postID, clientID string) uuid.UUID {
	return UUID("go-navsync:mapping:" + strings.TrimSpace(postID) + ":" + strings.TrimSpace(clientID))
}

// MenuItemsQueryKey is the entity store key for the full item list of a menu.
func MenuItemsQueryKey(menuID int64) string {
	return "menus=" + strconv.FormatInt(menuID, 10) + "&per_page=-1"
}

// QueryUUID is a stable identifier for a query key, used as a cache namespace.
func QueryUUID(queryKey string) uuid.UUID {
	return UUID("go-navsync:query:" + strings.TrimSpace(queryKey))
}
