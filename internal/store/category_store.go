package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mytracker/trackers-api/internal/models"
	"gorm.io/gorm"
)

// CategoryStore owns the category rows. Titles are trimmed on the way
// in and matched case-insensitively, so "Health" and " health " are the
// same category.
type CategoryStore struct {
	db       *gorm.DB
	mu       *sync.Mutex
	trackers *TrackerStore

	subs    map[int]func([]models.Category)
	nextSub int
}

// normalizeTitle is the single normalization applied to category keys.
func normalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

func (s *CategoryStore) Subscribe(fn func([]models.Category)) func() {
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

func (s *CategoryStore) notify() {
	list, err := s.fetchAll()
	if err != nil {
		return
	}
	for _, fn := range s.subs {
		fn(list)
	}
}

func (s *CategoryStore) FetchAll() ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchAll()
}

func (s *CategoryStore) fetchAll() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("title ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// FindByTitle looks a category up by its normalized title, ignoring
// case. Returns ErrNotFound when no category matches.
func (s *CategoryStore) FindByTitle(title string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByTitle(title)
}

func (s *CategoryStore) findByTitle(title string) (*models.Category, error) {
	key := normalizeTitle(title)
	var category models.Category
	err := s.db.Where("LOWER(title) = LOWER(?)", key).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	return &category, nil
}

func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByID(id)
}

func (s *CategoryStore) findByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := s.db.First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	return &category, nil
}

// CreateIfNeeded returns the existing category matching title, creating
// it when there is none.
func (s *CategoryStore) CreateIfNeeded(title string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createIfNeeded(title)
}

func (s *CategoryStore) createIfNeeded(title string) (*models.Category, error) {
	key := normalizeTitle(title)
	if key == "" {
		return nil, validationErr("title", "must not be empty")
	}

	existing, err := s.findByTitle(key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	category := models.Category{Title: key}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	s.notify()
	return &category, nil
}

// Rename changes a category's title. Renaming onto another category's
// title (under the normalized comparison) is rejected.
func (s *CategoryStore) Rename(id uuid.UUID, newTitle string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeTitle(newTitle)
	if key == "" {
		return nil, validationErr("title", "must not be empty")
	}

	category, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	if existing, err := s.findByTitle(key); err == nil && existing.ID != category.ID {
		return nil, validationErr("title", "a category with this title already exists")
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	category.Title = key
	if err := s.db.Save(category).Error; err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	s.notify()
	return category, nil
}

// Delete removes the category and cascades: every member tracker is
// deleted first, each purging its own completion records.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.findByID(id)
	if err != nil {
		return err
	}

	var members []models.Tracker
	if err := s.db.Where("category_id = ?", category.ID).Find(&members).Error; err != nil {
		return fmt.Errorf("failed to fetch category trackers: %w", err)
	}
	for _, tracker := range members {
		if err := s.trackers.deleteTracker(tracker.ID); err != nil {
			return err
		}
	}

	if err := s.db.Delete(&models.Category{}, "id = ?", category.ID).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.notify()
	if len(members) > 0 {
		s.trackers.notify()
		s.trackers.records.notify()
	}
	return nil
}
