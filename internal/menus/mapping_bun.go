package menus

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-navsync/internal/identity"
)

// MappingRecord is one persisted menu item <-> block association.
type MappingRecord struct {
	bun.BaseModel `bun:"table:navigation_mappings,alias:nm"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	PostID     string    `bun:"post_id,notnull" json:"post_id"`
	ClientID   string    `bun:"client_id,notnull" json:"client_id"`
	MenuItemID int64     `bun:"menu_item_id,notnull" json:"menu_item_id"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

const (
	mappingNamespace = "navigation_mapping"
	mappingPageSize  = 500
)

// NewMappingRecordRepository creates a go-repository-bun repository for mapping rows.
func NewMappingRecordRepository(db *bun.DB) repository.Repository[*MappingRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MappingRecord]{
		NewRecord: func() *MappingRecord { return &MappingRecord{} },
		GetID: func(r *MappingRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *MappingRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *MappingRecord) string {
			return r.ID.String()
		},
	})
}

// CreateMappingTable creates the mapping table when missing.
func CreateMappingTable(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("navigation mapping store: database not configured")
	}
	_, err := db.NewCreateTable().Model((*MappingRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

// BunMappingStore implements MappingStore on bun. With a cache service, reads
// are cached per post and writes go through the cached repository.
type BunMappingStore struct {
	db           *bun.DB
	reader       repository.Repository[*MappingRecord]
	writer       repository.Repository[*MappingRecord]
	cacheService cache.CacheService
	now          func() time.Time
}

// NewBunMappingStore creates a mapping store without caching.
func NewBunMappingStore(db *bun.DB) *BunMappingStore {
	return NewBunMappingStoreWithCache(db, nil, nil)
}

// NewBunMappingStoreWithCache enables caching when both cacheService and
// serializer are provided.
func NewBunMappingStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMappingStore {
	base := NewMappingRecordRepository(db)
	store := &BunMappingStore{
		db:     db,
		reader: base,
		writer: base,
		now:    time.Now,
	}
	if cacheService != nil && serializer != nil {
		store.writer = repositorycache.New(base, cacheService, serializer)
		store.cacheService = cacheService
	}
	return store
}

func (s *BunMappingStore) Get(ctx context.Context, postID string) (Mapping, error) {
	key := strings.TrimSpace(postID)
	if key == "" {
		return nil, ErrPostIDRequired
	}
	if s.cacheService == nil {
		return s.load(ctx, key)
	}
	mapping, err := cache.GetOrFetch(ctx, s.cacheService, postCacheKey(key), func(ctx context.Context) (Mapping, error) {
		return s.load(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return mapping.Clone(), nil
}

func (s *BunMappingStore) load(ctx context.Context, postID string) (Mapping, error) {
	mapping := make(Mapping)
	for offset := 0; ; offset += mappingPageSize {
		records, _, err := s.reader.List(ctx,
			repository.SelectBy("post_id", "=", postID),
			repository.SelectOrderAsc("client_id"),
			repository.SelectPaginate(mappingPageSize, offset),
		)
		if err != nil {
			return nil, mapRepositoryError(err, "navigation_mapping", postID)
		}
		for _, record := range records {
			mapping[record.MenuItemID] = record.ClientID
		}
		if len(records) < mappingPageSize {
			return mapping, nil
		}
	}
}

// Set replaces the stored mapping of postID inside one transaction.
func (s *BunMappingStore) Set(ctx context.Context, postID string, mapping Mapping) error {
	key := strings.TrimSpace(postID)
	if key == "" {
		return ErrPostIDRequired
	}
	if s.db == nil {
		return fmt.Errorf("navigation mapping store: database not configured")
	}

	now := s.now()
	rows := make([]*MappingRecord, 0, len(mapping))
	for _, itemID := range mapping.ItemIDs() {
		clientID := mapping[itemID]
		rows = append(rows, &MappingRecord{
			ID:         identity.MappingRecordUUID(key, clientID),
			PostID:     key,
			ClientID:   clientID,
			MenuItemID: itemID,
			CreatedAt:  now,
		})
	}
	slices.SortFunc(rows, func(a, b *MappingRecord) int {
		return strings.Compare(a.ClientID, b.ClientID)
	})

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.writer.DeleteManyTx(ctx, tx, repository.DeleteBy("post_id", "=", key)); err != nil {
			return fmt.Errorf("delete navigation mappings: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := s.writer.CreateManyTx(ctx, tx, rows); err != nil {
			return fmt.Errorf("insert navigation mappings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.invalidate(ctx, key)
}

func (s *BunMappingStore) invalidate(ctx context.Context, postID string) error {
	if s.cacheService == nil {
		return nil
	}
	return s.cacheService.Delete(ctx, postCacheKey(postID))
}

func postCacheKey(postID string) string {
	return strings.Join([]string{mappingNamespace, "post", postID}, cache.KeySeparator)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
