package services

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"gorm.io/gorm"
)

const (
	// cacheTTL bounds how long a compiled artifact stays valid.
	cacheTTL = 24 * time.Hour
	// cacheMaxEntries caps the table; inserts at capacity evict the oldest
	// fifth before writing.
	cacheMaxEntries = 1000
)

// CacheStats reports cache occupancy and the process-lifetime hit rate.
type CacheStats struct {
	Entries     int     `json:"entries"`
	MaxEntries  int     `json:"max_entries"`
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	TTLHours    int     `json:"ttl_hours"`
	OldestEntry *string `json:"oldest_entry,omitempty"`
}

// CacheService stores compiled contract artifacts keyed by source hash with a
// 24 hour TTL and capacity-triggered eviction.
type CacheService interface {
	Get(sourceHash string) (*models.CompilationCache, error)
	Put(entry *models.CompilationCache) error
	Stats() (*CacheStats, error)
	Clear() (int64, error)
	PurgeExpired() (int64, error)
}

type cacheService struct {
	db     *gorm.DB
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCacheService creates a new CacheService.
func NewCacheService(db *gorm.DB) CacheService {
	return &cacheService{db: db}
}

// Get looks a hash up. An expired row is deleted on the spot and counts as a
// miss, so readers never see stale artifacts.
func (s *cacheService) Get(sourceHash string) (*models.CompilationCache, error) {
	var entry models.CompilationCache
	err := s.db.Where("source_hash = ?", sourceHash).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.misses.Add(1)
		return nil, fmt.Errorf("cache entry %s: %w", sourceHash, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if time.Since(entry.CompiledAt) > cacheTTL {
		s.db.Delete(&entry)
		s.misses.Add(1)
		return nil, fmt.Errorf("cache entry %s expired: %w", sourceHash, ErrNotFound)
	}

	s.hits.Add(1)
	return &entry, nil
}

// Put inserts an artifact, evicting the oldest 20% of rows first when the
// table is at capacity. An existing row for the same hash is replaced.
func (s *cacheService) Put(entry *models.CompilationCache) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("source_hash = ?", entry.SourceHash).Delete(&models.CompilationCache{}).Error
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.CompilationCache{}).Count(&count).Error; err != nil {
			return err
		}
		if count >= cacheMaxEntries {
			evict := cacheMaxEntries / 5
			var victims []uint
			err := tx.Model(&models.CompilationCache{}).
				Order("compiled_at asc").
				Limit(evict).
				Pluck("id", &victims).Error
			if err != nil {
				return err
			}
			if len(victims) > 0 {
				if err := tx.Delete(&models.CompilationCache{}, victims).Error; err != nil {
					return err
				}
			}
		}

		if entry.CompiledAt.IsZero() {
			entry.CompiledAt = time.Now()
		}
		return tx.Create(entry).Error
	})
}

// Stats reports occupancy and the hit/miss counters accumulated since process
// start.
func (s *cacheService) Stats() (*CacheStats, error) {
	var count int64
	if err := s.db.Model(&models.CompilationCache{}).Count(&count).Error; err != nil {
		return nil, err
	}

	hits := s.hits.Load()
	misses := s.misses.Load()
	stats := &CacheStats{
		Entries:    int(count),
		MaxEntries: cacheMaxEntries,
		Hits:       hits,
		Misses:     misses,
		TTLHours:   int(cacheTTL.Hours()),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}

	if count > 0 {
		var oldest models.CompilationCache
		err := s.db.Order("compiled_at asc").First(&oldest).Error
		if err != nil {
			return nil, err
		}
		formatted := oldest.CompiledAt.Format(time.RFC3339)
		stats.OldestEntry = &formatted
	}
	return stats, nil
}

// Clear drops every cached artifact and returns how many were removed.
func (s *cacheService) Clear() (int64, error) {
	result := s.db.Where("1 = 1").Delete(&models.CompilationCache{})
	return result.RowsAffected, result.Error
}

// PurgeExpired deletes rows older than the TTL.
func (s *cacheService) PurgeExpired() (int64, error) {
	cutoff := time.Now().Add(-cacheTTL)
	result := s.db.Where("compiled_at < ?", cutoff).Delete(&models.CompilationCache{})
	return result.RowsAffected, result.Error
}
