package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/proofline/internal/model"
)

const (
	reportPrefix = "report:"
	configPrefix = "config:"
	dailyPrefix  = "daily:"
)

// MemoryStore keeps everything in process memory. Entries never expire.
type MemoryStore struct {
	cache  *gocache.Cache
	nextID atomic.Int64
	mu     sync.Mutex // Serializes read-modify-write of reports
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func reportKey(id int64) string {
	return reportPrefix + strconv.FormatInt(id, 10)
}

func (s *MemoryStore) AddReport(ctx context.Context, r *model.Report) (int64, error) {
	if err := validateReport(r); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	stored := *r
	stored.ID = s.nextID.Add(1)
	stored.Status = model.StatusSubmitted
	stored.CheckResult = nil
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.cache.Set(reportKey(stored.ID), &stored, gocache.NoExpiration)
	return stored.ID, nil
}

func (s *MemoryStore) Report(ctx context.Context, id int64) (*model.Report, error) {
	val, found := s.cache.Get(reportKey(id))
	if !found {
		return nil, fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	clone := *val.(*model.Report)
	return &clone, nil
}

// Reports returns every report ordered by id
func (s *MemoryStore) Reports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	for key, item := range s.cache.Items() {
		if strings.HasPrefix(key, reportPrefix) {
			reports = append(reports, *item.Object.(*model.Report))
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	return reports, nil
}

func (s *MemoryStore) SaveResult(ctx context.Context, id int64, result model.CheckResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Report(ctx, id)
	if err != nil {
		return err
	}
	current.CheckResult = &result
	current.Status = model.StatusChecked
	current.UpdatedAt = time.Now().UTC()

	s.cache.Set(reportKey(id), current, gocache.NoExpiration)
	return nil
}

func dailyKey(member string, day time.Time) string {
	return dailyPrefix + day.Format(model.DayLayout) + ":" + member
}

// SetDaily stores e, replacing the member's entry for the same date. Blank
// content deletes the entry.
func (s *MemoryStore) SetDaily(ctx context.Context, e *model.DailyEntry) error {
	if err := validateDaily(e); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day := model.Day(e.Date)
	key := dailyKey(e.Member, day)
	if strings.TrimSpace(e.Content) == "" {
		s.cache.Delete(key)
		return nil
	}

	stored := model.DailyEntry{
		Member:    e.Member,
		Date:      day,
		Content:   e.Content,
		UpdatedAt: time.Now().UTC(),
	}
	if val, found := s.cache.Get(key); found {
		stored.ID = val.(*model.DailyEntry).ID
	} else {
		stored.ID = s.nextID.Add(1)
	}
	s.cache.Set(key, &stored, gocache.NoExpiration)
	return nil
}

// DailyEntries returns entries dated start through end inclusive, ordered
// by date. An empty member selects every member.
func (s *MemoryStore) DailyEntries(ctx context.Context, member string, start, end time.Time) ([]model.DailyEntry, error) {
	from, to := model.Day(start), model.Day(end)

	var entries []model.DailyEntry
	for key, item := range s.cache.Items() {
		if !strings.HasPrefix(key, dailyPrefix) {
			continue
		}
		e := *item.Object.(*model.DailyEntry)
		if member != "" && e.Member != member {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (s *MemoryStore) SetConfig(ctx context.Context, key, value, description string) error {
	s.cache.Set(configPrefix+key, value, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Config(ctx context.Context, key string) (string, error) {
	val, found := s.cache.Get(configPrefix + key)
	if !found {
		return "", fmt.Errorf("config %q: %w", key, ErrNotFound)
	}
	return val.(string), nil
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
