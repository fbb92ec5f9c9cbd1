package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mytracker/trackers-api/internal/models"
	"gorm.io/gorm"
)

// RecordStore owns the completion record rows. Dates are truncated to
// the calendar day before they reach the database, so "completed on
// this day" is an equality match.
type RecordStore struct {
	db *gorm.DB
	mu *sync.Mutex

	subs    map[int]func()
	nextSub int
}

// Subscribe registers a listener fired after every successful mutation.
// The returned func removes it.
func (s *RecordStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *RecordStore) notify() {
	for _, fn := range s.subs {
		fn()
	}
}

func (s *RecordStore) IsCompleted(trackerID uuid.UUID, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isCompleted(trackerID, date)
}

func (s *RecordStore) isCompleted(trackerID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.TrackerRecord{}).
		Where("tracker_id = ? AND date = ?", trackerID, models.DayOf(date)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to query completion: %w", err)
	}
	return count > 0, nil
}

// Add inserts a completion for the tracker on date's calendar day. A
// record already covering that day is left alone, so double-adds never
// produce duplicates.
func (s *RecordStore) Add(trackerID uuid.UUID, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	done, err := s.isCompleted(trackerID, date)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	record := models.TrackerRecord{TrackerID: trackerID, Date: models.DayOf(date)}
	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to save completion: %w", err)
	}
	s.notify()
	return nil
}

// Remove deletes the completion for that calendar day if present.
func (s *RecordStore) Remove(trackerID uuid.UUID, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.Where("tracker_id = ? AND date = ?", trackerID, models.DayOf(date)).
		Delete(&models.TrackerRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete completion: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.notify()
	}
	return nil
}

func (s *RecordStore) NumberOfCompletions(trackerID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numberOfCompletions(trackerID)
}

func (s *RecordStore) numberOfCompletions(trackerID uuid.UUID) (int, error) {
	var count int64
	err := s.db.Model(&models.TrackerRecord{}).
		Where("tracker_id = ?", trackerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return int(count), nil
}

func (s *RecordStore) FetchAll() ([]models.TrackerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []models.TrackerRecord
	if err := s.db.Order("date ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch completions: %w", err)
	}
	return records, nil
}

// PurgeForTracker deletes every record referencing the tracker. Tracker
// deletion and category cascade both run through this in the same
// logical operation, so orphaned records never survive.
func (s *RecordStore) PurgeForTracker(trackerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.purgeForTracker(trackerID); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *RecordStore) purgeForTracker(trackerID uuid.UUID) error {
	if err := s.db.Where("tracker_id = ?", trackerID).Delete(&models.TrackerRecord{}).Error; err != nil {
		return fmt.Errorf("failed to purge completions: %w", err)
	}
	return nil
}
