package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"legal-research-be/pkg/store"
)

const keyPrefix = "legal_query:"

// KV is the minimal key-value contract the result cache needs. The redis
// adapter satisfies it in production; tests use an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ResultCache stores JSON-serialized pipeline results keyed by a
// collision-resistant hash of the normalized question. Every failure on
// the read or write path is a soft miss/no-op: the pipeline must remain
// fully functional with caching disabled.
type ResultCache struct {
	kv     KV
	ttl    time.Duration
	logger *log.Logger
}

// NewResultCache creates a cache over kv; a nil kv disables caching.
func NewResultCache(kv KV, ttl time.Duration, logger *log.Logger) *ResultCache {
	return &ResultCache{
		kv:     kv,
		ttl:    ttl,
		logger: logger,
	}
}

// Key derives the cache key from the question text: lower-case, trim,
// SHA-256. A cryptographic hash keeps two distinct questions from silently
// sharing an entry.
func Key(question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	sum := sha256.Sum256([]byte(normalized))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached result for a question, or nil on miss. A hit
// comes back with CacheHit forced true and ProcessingTime zeroed, so a hit
// is behaviorally indistinguishable from a fresh run to downstream
// consumers.
func (c *ResultCache) Get(ctx context.Context, question string) *store.PipelineResult {
	if c.kv == nil {
		return nil
	}

	data, found, err := c.kv.Get(ctx, Key(question))
	if err != nil {
		c.logger.Printf("[WARN] Cache read failed: %v", err)
		return nil
	}
	if !found {
		return nil
	}

	// sub_questions is decoded generically and re-coerced through the
	// shared normalization, mirroring the orchestrator's handling of
	// structured replies.
	var envelope struct {
		Answer           string               `json:"answer"`
		SubQuestions     interface{}          `json:"sub_questions"`
		DocumentMetadata []store.DocumentMeta `json:"document_metadata"`
	}
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		c.logger.Printf("[WARN] Corrupted cache entry, treating as miss: %v", err)
		return nil
	}

	result := &store.PipelineResult{
		Answer:           envelope.Answer,
		SubQuestions:     store.CoerceQuestionSet(envelope.SubQuestions),
		DocumentMetadata: envelope.DocumentMetadata,
		ProcessingTime:   0.0,
		CacheHit:         true,
	}
	if result.DocumentMetadata == nil {
		result.DocumentMetadata = []store.DocumentMeta{}
	}
	return result
}

// Put stores a result; returns whether the write succeeded.
func (c *ResultCache) Put(ctx context.Context, question string, result *store.PipelineResult) bool {
	if c.kv == nil || result == nil {
		return false
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Printf("[WARN] Cache serialization failed: %v", err)
		return false
	}

	if err := c.kv.Set(ctx, Key(question), string(data), c.ttl); err != nil {
		c.logger.Printf("[WARN] Cache write failed: %v", err)
		return false
	}

	return true
}
