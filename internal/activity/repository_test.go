package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupActivityDB opens an in-memory SQLite database. The schema is created
// by hand because the production DDL carries Postgres-only defaults.
func setupActivityDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named in-memory database per test; a bare file::memory: with
	// cache=shared would make every test share one database.
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.Exec(`CREATE TABLE activities (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		related_entity_id TEXT,
		related_entity_type TEXT,
		is_read BOOLEAN NOT NULL DEFAULT false,
		created_at DATETIME NOT NULL
	)`).Error
	require.NoError(t, err)
	return db
}

// seedActivity inserts a row with an explicit ID and timestamp, since SQLite
// cannot generate UUIDs.
func seedActivity(t *testing.T, db *gorm.DB, userID uuid.UUID, message string, createdAt time.Time) *Activity {
	t.Helper()
	entry := &Activity{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      GeneralNotification,
		Message:   message,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestActivityRepository_GetByUserID_NewestFirst(t *testing.T) {
	db := setupActivityDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	oldest := seedActivity(t, db, userID, "first", base)
	middle := seedActivity(t, db, userID, "second", base.Add(10*time.Minute))
	newest := seedActivity(t, db, userID, "third", base.Add(20*time.Minute))
	seedActivity(t, db, uuid.New(), "someone else's", base.Add(30*time.Minute))

	entries, err := repo.GetByUserID(ctx, userID, 20)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, newest.ID, entries[0].ID)
	assert.Equal(t, middle.ID, entries[1].ID)
	assert.Equal(t, oldest.ID, entries[2].ID)
}

func TestActivityRepository_GetByUserID_LimitApplies(t *testing.T) {
	db := setupActivityDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		seedActivity(t, db, userID, "entry", base.Add(time.Duration(i)*time.Minute))
	}

	entries, err := repo.GetByUserID(ctx, userID, 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))
}

func TestActivityRepository_MarkAsRead(t *testing.T) {
	db := setupActivityDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	entry := seedActivity(t, db, userID, "unread", time.Now().UTC())

	require.NoError(t, repo.MarkAsRead(ctx, entry.ID, userID))

	var reloaded Activity
	require.NoError(t, db.First(&reloaded, "id = ?", entry.ID).Error)
	assert.True(t, reloaded.IsRead)
}
