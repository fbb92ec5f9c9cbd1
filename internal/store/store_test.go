package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mytracker/trackers-api/internal/models"
)

func testStores(t *testing.T) *Stores {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Tracker{}, &models.TrackerRecord{}))
	return New(db)
}

func createTracker(t *testing.T, s *Stores, name, category string, days ...models.Weekday) *models.Tracker {
	t.Helper()
	tracker, err := s.Trackers.Create(models.CreateTrackerRequest{
		Name:          name,
		Emoji:         "🙂",
		Color:         "#FD4C49",
		Schedule:      models.Schedule(days),
		CategoryTitle: category,
	})
	require.NoError(t, err)
	return tracker
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateTrackerAppearsInItsCategorySection(t *testing.T) {
	s := testStores(t)
	created := createTracker(t, s, "Run", "Sport", models.Monday, models.Friday)

	assert.False(t, created.IsPinned)
	assert.NotEqual(t, uuid.Nil, created.ID)

	sections, err := s.Trackers.GroupedByCategory()
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Sport", sections[0].Title)
	require.Len(t, sections[0].Trackers, 1)

	got := sections[0].Trackers[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Run", got.Name)
	assert.Equal(t, "🙂", got.Emoji)
	assert.Equal(t, "#FD4C49", got.Color)
	assert.Equal(t, models.Schedule{models.Monday, models.Friday}, got.Schedule)
}

func TestCreateTrackerValidation(t *testing.T) {
	s := testStores(t)
	cases := []struct {
		name string
		req  models.CreateTrackerRequest
	}{
		{"empty name", models.CreateTrackerRequest{Name: "  ", Emoji: "🙂", Color: "#FD4C49", Schedule: models.Schedule{models.Monday}, CategoryTitle: "Sport"}},
		{"empty schedule", models.CreateTrackerRequest{Name: "Run", Emoji: "🙂", Color: "#FD4C49", CategoryTitle: "Sport"}},
		{"missing emoji", models.CreateTrackerRequest{Name: "Run", Color: "#FD4C49", Schedule: models.Schedule{models.Monday}, CategoryTitle: "Sport"}},
		{"bad color", models.CreateTrackerRequest{Name: "Run", Emoji: "🙂", Color: "red", Schedule: models.Schedule{models.Monday}, CategoryTitle: "Sport"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Trackers.Create(tc.req)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	// Nothing was persisted by the failed creates.
	sections, err := s.Trackers.GroupedByCategory()
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestColorIsNormalizedUppercase(t *testing.T) {
	s := testStores(t)
	tracker, err := s.Trackers.Create(models.CreateTrackerRequest{
		Name:          "Run",
		Emoji:         "🙂",
		Color:         "#fd4c49",
		Schedule:      models.Schedule{models.Monday},
		CategoryTitle: "Sport",
	})
	require.NoError(t, err)
	assert.Equal(t, "#FD4C49", tracker.Color)
}

func TestPinnedSectionComesFirstAndHidesCategoryMembership(t *testing.T) {
	s := testStores(t)
	createTracker(t, s, "Run", "Sport", models.Monday)
	pinned := createTracker(t, s, "Stretch", "Sport", models.Monday)

	_, err := s.Trackers.SetPinned(pinned.ID, true)
	require.NoError(t, err)

	sections, err := s.Trackers.GroupedByCategory()
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, PinnedSectionTitle, sections[0].Title)
	assert.True(t, sections[0].Pinned)
	require.Len(t, sections[0].Trackers, 1)
	assert.Equal(t, pinned.ID, sections[0].Trackers[0].ID)

	// The pinned tracker never shows in its own category's section.
	assert.Equal(t, "Sport", sections[1].Title)
	require.Len(t, sections[1].Trackers, 1)
	assert.Equal(t, "Run", sections[1].Trackers[0].Name)
}

func TestGroupedSectionsSortCategoriesAndNames(t *testing.T) {
	s := testStores(t)
	createTracker(t, s, "Vacuum", "Chores", models.Monday)
	createTracker(t, s, "Run", "Sport", models.Monday)
	createTracker(t, s, "Bike", "Sport", models.Monday)

	sections, err := s.Trackers.GroupedByCategory()
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Chores", sections[0].Title)
	assert.Equal(t, "Sport", sections[1].Title)
	require.Len(t, sections[1].Trackers, 2)
	assert.Equal(t, "Bike", sections[1].Trackers[0].Name)
	assert.Equal(t, "Run", sections[1].Trackers[1].Name)
}

func TestEmptyCategoryIsOmittedWhenAllMembersPinned(t *testing.T) {
	s := testStores(t)
	only := createTracker(t, s, "Run", "Sport", models.Monday)
	_, err := s.Trackers.SetPinned(only.ID, true)
	require.NoError(t, err)

	sections, err := s.Trackers.GroupedByCategory()
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, PinnedSectionTitle, sections[0].Title)
}

func TestUpdateTrackerFields(t *testing.T) {
	s := testStores(t)
	tracker := createTracker(t, s, "Run", "Sport", models.Monday)

	newName := "Morning Run"
	newSchedule := models.Schedule{models.Tuesday, models.Thursday}
	newCategory := "Health"
	updated, err := s.Trackers.Update(tracker.ID, models.UpdateTrackerRequest{
		Name:          &newName,
		Schedule:      &newSchedule,
		CategoryTitle: &newCategory,
	})
	require.NoError(t, err)
	assert.Equal(t, tracker.ID, updated.ID)
	assert.Equal(t, "Morning Run", updated.Name)
	assert.Equal(t, newSchedule, updated.Schedule)

	sections, err := s.Trackers.GroupedByCategory()
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Health", sections[0].Title)
}

func TestUpdateRejectsEmptySchedule(t *testing.T) {
	s := testStores(t)
	tracker := createTracker(t, s, "Run", "Sport", models.Monday)

	empty := models.Schedule{}
	_, err := s.Trackers.Update(tracker.ID, models.UpdateTrackerRequest{Schedule: &empty})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateMissingTrackerIsNotFound(t *testing.T) {
	s := testStores(t)
	name := "Run"
	_, err := s.Trackers.Update(uuid.New(), models.UpdateTrackerRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTrackerPurgesRecords(t *testing.T) {
	s := testStores(t)
	tracker := createTracker(t, s, "Run", "Sport", models.Monday)

	require.NoError(t, s.Records.Add(tracker.ID, day("2024-01-01")))
	require.NoError(t, s.Records.Add(tracker.ID, day("2024-01-02")))

	require.NoError(t, s.Trackers.Delete(tracker.ID))

	count, err := s.Records.NumberOfCompletions(tracker.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	exists, err := s.Trackers.ExistsByID(tracker.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	sections, err := s.Trackers.GroupedByCategory()
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestAddIsIdempotentPerDay(t *testing.T) {
	s := testStores(t)
	tracker := createTracker(t, s, "Run", "Sport", models.Monday)

	// Different times of the same day collapse to one record.
	require.NoError(t, s.Records.Add(tracker.ID, day("2024-01-01").Add(8*time.Hour)))
	require.NoError(t, s.Records.Add(tracker.ID, day("2024-01-01").Add(20*time.Hour)))

	count, err := s.Records.NumberOfCompletions(tracker.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	s := testStores(t)
	tracker := createTracker(t, s, "Run", "Sport", models.Monday)
	d := day("2024-01-01")

	done, err := s.Records.IsCompleted(tracker.ID, d)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, s.Records.Add(tracker.ID, d))
	done, err = s.Records.IsCompleted(tracker.ID, d)
	require.NoError(t, err)
	assert.True(t, done)

	require.NoError(t, s.Records.Remove(tracker.ID, d))
	done, err = s.Records.IsCompleted(tracker.ID, d)
	require.NoError(t, err)
	assert.False(t, done)

	count, err := s.Records.NumberOfCompletions(tracker.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRemoveMissingRecordIsNoop(t *testing.T) {
	s := testStores(t)
	tracker := createTracker(t, s, "Run", "Sport", models.Monday)
	assert.NoError(t, s.Records.Remove(tracker.ID, day("2024-01-01")))
}

func TestCreateIfNeededDeduplicatesTitles(t *testing.T) {
	s := testStores(t)
	first, err := s.Categories.CreateIfNeeded("Health")
	require.NoError(t, err)

	second, err := s.Categories.CreateIfNeeded(" health ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := s.Categories.FetchAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindByTitleTrimsAndIgnoresCase(t *testing.T) {
	s := testStores(t)
	created, err := s.Categories.CreateIfNeeded("Health")
	require.NoError(t, err)

	found, err := s.Categories.FindByTitle("  HEALTH ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = s.Categories.FindByTitle("Sport")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameCategory(t *testing.T) {
	s := testStores(t)
	category, err := s.Categories.CreateIfNeeded("Sport")
	require.NoError(t, err)

	renamed, err := s.Categories.Rename(category.ID, " Fitness ")
	require.NoError(t, err)
	assert.Equal(t, "Fitness", renamed.Title)
}

func TestRenameOntoExistingTitleIsRejected(t *testing.T) {
	s := testStores(t)
	_, err := s.Categories.CreateIfNeeded("Sport")
	require.NoError(t, err)
	other, err := s.Categories.CreateIfNeeded("Health")
	require.NoError(t, err)

	_, err = s.Categories.Rename(other.ID, " sport ")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRenameKeepingOwnTitleIsAllowed(t *testing.T) {
	s := testStores(t)
	category, err := s.Categories.CreateIfNeeded("Sport")
	require.NoError(t, err)

	_, err = s.Categories.Rename(category.ID, "SPORT")
	assert.NoError(t, err)
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := testStores(t)
	run := createTracker(t, s, "Run", "Sport", models.Monday)
	bike := createTracker(t, s, "Bike", "Sport", models.Monday)
	keep := createTracker(t, s, "Read", "Leisure", models.Monday)

	require.NoError(t, s.Records.Add(run.ID, day("2024-01-01")))
	require.NoError(t, s.Records.Add(bike.ID, day("2024-01-01")))
	require.NoError(t, s.Records.Add(keep.ID, day("2024-01-01")))

	category, err := s.Categories.FindByTitle("Sport")
	require.NoError(t, err)
	require.NoError(t, s.Categories.Delete(category.ID))

	for _, id := range []uuid.UUID{run.ID, bike.ID} {
		exists, err := s.Trackers.ExistsByID(id)
		require.NoError(t, err)
		assert.False(t, exists)

		count, err := s.Records.NumberOfCompletions(id)
		require.NoError(t, err)
		assert.Zero(t, count)
	}

	// The unrelated category and its tracker survive untouched.
	exists, err := s.Trackers.ExistsByID(keep.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	count, err := s.Records.NumberOfCompletions(keep.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = s.Categories.FindByTitle("Sport")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListenersFireWithFreshSnapshots(t *testing.T) {
	s := testStores(t)

	var trackerEvents [][]models.TrackerSection
	unsubTrackers := s.Trackers.Subscribe(func(sections []models.TrackerSection) {
		trackerEvents = append(trackerEvents, sections)
	})

	recordEvents := 0
	unsubRecords := s.Records.Subscribe(func() { recordEvents++ })

	tracker := createTracker(t, s, "Run", "Sport", models.Monday)
	require.NotEmpty(t, trackerEvents)
	last := trackerEvents[len(trackerEvents)-1]
	require.Len(t, last, 1)
	assert.Equal(t, "Run", last[0].Trackers[0].Name)

	require.NoError(t, s.Records.Add(tracker.ID, day("2024-01-01")))
	assert.Equal(t, 1, recordEvents)

	// Unsubscribed listeners stay silent.
	unsubTrackers()
	unsubRecords()
	seen := len(trackerEvents)
	createTracker(t, s, "Bike", "Sport", models.Tuesday)
	assert.Len(t, trackerEvents, seen)
	assert.Equal(t, 1, recordEvents)
}

func TestFetchAllRecordsSortedByDate(t *testing.T) {
	s := testStores(t)
	tracker := createTracker(t, s, "Run", "Sport", models.Monday)
	require.NoError(t, s.Records.Add(tracker.ID, day("2024-01-05")))
	require.NoError(t, s.Records.Add(tracker.ID, day("2024-01-01")))

	records, err := s.Records.FetchAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Date.Before(records[1].Date))
}
