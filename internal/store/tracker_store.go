package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mytracker/trackers-api/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// PinnedSectionTitle heads the synthetic section that collects pinned
// trackers ahead of their categories.
const PinnedSectionTitle = "Pinned"

// TrackerStore owns the tracker rows. Every mutation persists, then
// synchronously hands the fresh grouped snapshot to all listeners.
type TrackerStore struct {
	db         *gorm.DB
	mu         *sync.Mutex
	categories *CategoryStore
	records    *RecordStore

	subs    map[int]func([]models.TrackerSection)
	nextSub int
}

func (s *TrackerStore) Subscribe(fn func([]models.TrackerSection)) func() {
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

func (s *TrackerStore) notify() {
	sections, err := s.groupedByCategory()
	if err != nil {
		return
	}
	for _, fn := range s.subs {
		fn(sections)
	}
}

func validateTrackerFields(name, emoji, color string, schedule models.Schedule) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", validationErr("name", "must not be empty")
	}
	if emoji == "" {
		return "", validationErr("emoji", "must not be empty")
	}
	normColor, err := models.NormalizeHexColor(color)
	if err != nil {
		return "", validationErr("color", "must be a #RRGGBB hex string")
	}
	if len(schedule.Normalized()) == 0 {
		return "", validationErr("schedule", "must contain at least one weekday")
	}
	return normColor, nil
}

// Create resolves the category by title (creating it when needed),
// builds the tracker unpinned with a fresh id, persists it and notifies.
func (s *TrackerStore) Create(req models.CreateTrackerRequest) (*models.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normColor, err := validateTrackerFields(req.Name, req.Emoji, req.Color, req.Schedule)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.createIfNeeded(req.CategoryTitle)
	if err != nil {
		return nil, err
	}

	tracker := models.Tracker{
		Name:       strings.TrimSpace(req.Name),
		Emoji:      req.Emoji,
		Color:      normColor,
		Schedule:   req.Schedule.Normalized(),
		IsPinned:   false,
		CategoryID: category.ID,
	}
	if err := s.db.Create(&tracker).Error; err != nil {
		return nil, fmt.Errorf("failed to save tracker: %w", err)
	}

	s.notify()
	return &tracker, nil
}

// Update applies the request's non-nil fields to the tracker. The id
// never changes.
func (s *TrackerStore) Update(id uuid.UUID, req models.UpdateTrackerRequest) (*models.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracker, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, validationErr("name", "must not be empty")
		}
		tracker.Name = strings.TrimSpace(*req.Name)
	}
	if req.Emoji != nil {
		if *req.Emoji == "" {
			return nil, validationErr("emoji", "must not be empty")
		}
		tracker.Emoji = *req.Emoji
	}
	if req.Color != nil {
		normColor, err := models.NormalizeHexColor(*req.Color)
		if err != nil {
			return nil, validationErr("color", "must be a #RRGGBB hex string")
		}
		tracker.Color = normColor
	}
	if req.Schedule != nil {
		norm := req.Schedule.Normalized()
		if len(norm) == 0 {
			return nil, validationErr("schedule", "must contain at least one weekday")
		}
		tracker.Schedule = norm
	}
	if req.IsPinned != nil {
		tracker.IsPinned = *req.IsPinned
	}
	if req.CategoryTitle != nil {
		category, err := s.categories.createIfNeeded(*req.CategoryTitle)
		if err != nil {
			return nil, err
		}
		tracker.CategoryID = category.ID
	}

	if err := s.db.Save(tracker).Error; err != nil {
		return nil, fmt.Errorf("failed to save tracker: %w", err)
	}

	s.notify()
	return tracker, nil
}

// SetPinned flips the pinned flag only.
func (s *TrackerStore) SetPinned(id uuid.UUID, isPinned bool) (*models.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracker, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	tracker.IsPinned = isPinned
	if err := s.db.Save(tracker).Error; err != nil {
		return nil, fmt.Errorf("failed to save tracker: %w", err)
	}

	s.notify()
	return tracker, nil
}

// Delete removes the tracker and purges its completion records in the
// same logical operation.
func (s *TrackerStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deleteTracker(id); err != nil {
		return err
	}
	s.notify()
	s.records.notify()
	return nil
}

// deleteTracker is the lock-held delete used both directly and by the
// category cascade. The caller notifies.
func (s *TrackerStore) deleteTracker(id uuid.UUID) error {
	tracker, err := s.findByID(id)
	if err != nil {
		return err
	}
	if err := s.records.purgeForTracker(tracker.ID); err != nil {
		return err
	}
	if err := s.db.Delete(&models.Tracker{}, "id = ?", tracker.ID).Error; err != nil {
		return fmt.Errorf("failed to delete tracker: %w", err)
	}
	return nil
}

func (s *TrackerStore) ExistsByID(id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if err := s.db.Model(&models.Tracker{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to query tracker: %w", err)
	}
	return count > 0, nil
}

func (s *TrackerStore) FindByID(id uuid.UUID) (*models.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByID(id)
}

func (s *TrackerStore) findByID(id uuid.UUID) (*models.Tracker, error) {
	var tracker models.Tracker
	err := s.db.First(&tracker, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracker: %w", err)
	}
	return &tracker, nil
}

// GroupedByCategory returns the section list the main screen renders:
// a "Pinned" section first when any tracker is pinned, then one section
// per category in collated title order. Trackers sort by name within a
// section; categories left with no unpinned trackers are omitted.
func (s *TrackerStore) GroupedByCategory() ([]models.TrackerSection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupedByCategory()
}

func (s *TrackerStore) groupedByCategory() ([]models.TrackerSection, error) {
	var trackers []models.Tracker
	if err := s.db.Preload("Category").Find(&trackers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch trackers: %w", err)
	}

	coll := collate.New(language.Und)
	byName := func(list []models.Tracker) {
		sort.Slice(list, func(i, j int) bool {
			return coll.CompareString(list[i].Name, list[j].Name) < 0
		})
	}

	var pinned []models.Tracker
	grouped := map[string][]models.Tracker{}
	for _, t := range trackers {
		if t.IsPinned {
			pinned = append(pinned, t)
			continue
		}
		title := ""
		if t.Category != nil {
			title = normalizeTitle(t.Category.Title)
		}
		if title == "" {
			continue
		}
		grouped[title] = append(grouped[title], t)
	}

	sections := make([]models.TrackerSection, 0, len(grouped)+1)
	if len(pinned) > 0 {
		byName(pinned)
		sections = append(sections, models.TrackerSection{
			Title:    PinnedSectionTitle,
			Pinned:   true,
			Trackers: pinned,
		})
	}

	titles := make([]string, 0, len(grouped))
	for title := range grouped {
		titles = append(titles, title)
	}
	coll.SortStrings(titles)

	for _, title := range titles {
		members := grouped[title]
		byName(members)
		sections = append(sections, models.TrackerSection{
			Title:    title,
			Trackers: members,
		})
	}
	return sections, nil
}
