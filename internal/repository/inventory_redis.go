package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"armory-api/internal/model"
)

const (
	itemKeyPrefix    = "inventory:item:"
	metaLastSyncKey  = "inventory:meta:lastSync"
	metaItemCountKey = "inventory:meta:itemCount"

	// DefaultKVBatchSize is how many SETs one pipeline round-trip carries.
	DefaultKVBatchSize = 100

	// DefaultItemTTL bounds how long a record outlives the sync that wrote
	// it. If syncs stop, the catalog empties itself instead of serving
	// stale data forever.
	DefaultItemTTL = 3 * time.Hour

	scanPageSize = 1000
)

// RedisInventoryStore implements InventoryStore using Redis. Key-value
// variant of the storage contract: O(n) pagination by key listing and
// client-side filtering, acceptable at moderate catalog sizes.
type RedisInventoryStore struct {
	client    *redis.Client
	ttl       time.Duration
	batchSize int
}

// RedisStoreConfig holds connection settings for the Redis store.
type RedisStoreConfig struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	BatchSize int
}

// NewRedisInventoryStore creates a Redis inventory store and verifies the
// connection.
func NewRedisInventoryStore(cfg RedisStoreConfig) (*RedisInventoryStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 5,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultItemTTL
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultKVBatchSize
	}

	log.Printf("[RedisInventoryStore] Initialized - DB:%d, TTL:%v, batch:%d", cfg.DB, ttl, batchSize)
	return &RedisInventoryStore{client: client, ttl: ttl, batchSize: batchSize}, nil
}

// ReplaceAll writes every record under its stock-number key with a bounded
// TTL, removes keys that are no longer part of the snapshot, and updates the
// metadata keys last.
func (r *RedisInventoryStore) ReplaceAll(ctx context.Context, records []model.InventoryRecord) error {
	current := make(map[string]bool, len(records))
	saved := 0

	for start := 0; start < len(records); start += r.batchSize {
		end := start + r.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		pipe := r.client.Pipeline()
		for _, rec := range batch {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to marshal record %s: %w", rec.StockNumber, err)
			}
			key := itemKeyPrefix + rec.StockNumber
			current[key] = true
			pipe.Set(ctx, key, data, r.ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to save inventory batch: %w", err)
		}

		saved += len(batch)
		log.Printf("[RedisInventoryStore] Saved batch - %d/%d items", saved, len(records))
	}

	// Drop keys superseded by this snapshot; the TTL would get them
	// eventually, but readers should not see vanished SKUs in the meantime.
	if err := r.deleteStaleKeys(ctx, current); err != nil {
		log.Printf("[RedisInventoryStore] Stale key cleanup error: %v", err)
	}

	// Metadata last, per the storage contract.
	pipe := r.client.Pipeline()
	pipe.Set(ctx, metaLastSyncKey, time.Now().UTC().Format(time.RFC3339), 0)
	pipe.Set(ctx, metaItemCountKey, strconv.Itoa(len(records)), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update sync metadata: %w", err)
	}

	log.Printf("[RedisInventoryStore] Successfully saved %d items", saved)
	return nil
}

func (r *RedisInventoryStore) deleteStaleKeys(ctx context.Context, current map[string]bool) error {
	keys, err := r.scanItemKeys(ctx)
	if err != nil {
		return err
	}

	var stale []string
	for _, key := range keys {
		if !current[key] {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, stale...).Err(); err != nil {
		return err
	}
	log.Printf("[RedisInventoryStore] Removed %d stale items", len(stale))
	return nil
}

// QueryPage materializes the full snapshot, filters and sorts it in memory,
// then slices the requested page. An explicit scalability tradeoff of the
// key-value variant.
func (r *RedisInventoryStore) QueryPage(ctx context.Context, page, pageSize int, filter model.ProductFilter) ([]model.InventoryRecord, int, error) {
	keys, err := r.scanItemKeys(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory keys: %w", err)
	}

	records := make([]model.InventoryRecord, 0, len(keys))
	for start := 0; start < len(keys); start += scanPageSize {
		end := start + scanPageSize
		if end > len(keys) {
			end = len(keys)
		}

		values, err := r.client.MGet(ctx, keys[start:end]...).Result()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read inventory items: %w", err)
		}
		for _, v := range values {
			s, ok := v.(string)
			if !ok {
				continue // expired between SCAN and MGET
			}
			var rec model.InventoryRecord
			if err := json.Unmarshal([]byte(s), &rec); err != nil {
				log.Printf("[RedisInventoryStore] Skipping unreadable item: %v", err)
				continue
			}
			if MatchesFilter(rec, filter) {
				records = append(records, rec)
			}
		}
	}

	SortByDescription(records)
	return Paginate(records, page, pageSize), len(records), nil
}

func (r *RedisInventoryStore) scanItemKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		page, next, err := r.client.Scan(ctx, cursor, itemKeyPrefix+"*", scanPageSize).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, page...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// SyncMetadata reads the metadata keys.
func (r *RedisInventoryStore) SyncMetadata(ctx context.Context) (model.SyncMetadata, error) {
	lastSyncStr, err := r.client.Get(ctx, metaLastSyncKey).Result()
	if err == redis.Nil {
		return model.SyncMetadata{}, nil
	}
	if err != nil {
		return model.SyncMetadata{}, fmt.Errorf("failed to read sync metadata: %w", err)
	}

	lastSync, err := time.Parse(time.RFC3339, lastSyncStr)
	if err != nil {
		return model.SyncMetadata{}, fmt.Errorf("malformed sync timestamp %q: %w", lastSyncStr, err)
	}

	count := 0
	if countStr, err := r.client.Get(ctx, metaItemCountKey).Result(); err == nil {
		count, _ = strconv.Atoi(countStr)
	}

	return model.SyncMetadata{
		LastSync:  &lastSync,
		ItemCount: count,
		Healthy:   model.Fresh(lastSync, time.Now().UTC()),
	}, nil
}

// Close closes the Redis connection.
func (r *RedisInventoryStore) Close() error {
	return r.client.Close()
}

// Ensure RedisInventoryStore implements InventoryStore
var _ InventoryStore = (*RedisInventoryStore)(nil)
