package crud

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"simpleTwitter/domain"
)

// testDB opens a fresh in-memory sqlite database and migrates all tables.
// The connection pool is limited to a single connection, so the in-memory
// database is shared between goroutines and concurrent transactions
// serialize on it the way row locks would on postgres.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		domain.User{},
		domain.Tweet{},
		domain.Reply{},
		domain.Like{},
		domain.Follow{},
	)
	require.NoError(t, err)
	return db
}

// seedUser creates a user record directly, bypassing the validation chain.
func seedUser(t *testing.T, db *gorm.DB, account string) *domain.User {
	t.Helper()
	user := &domain.User{
		Account:      account,
		Name:         account,
		Email:        account + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedTweet creates a tweet record directly, bypassing the validation chain.
func seedTweet(t *testing.T, db *gorm.DB, userID int) *domain.Tweet {
	t.Helper()
	tweet := &domain.Tweet{
		UserID:  userID,
		Content: "what a day",
	}
	require.NoError(t, db.Create(tweet).Error)
	return tweet
}

// tweetCommentCount reads the denormalized comment counter off a tweet row.
func tweetCommentCount(t *testing.T, db *gorm.DB, tweetID int) int {
	t.Helper()
	var tweet domain.Tweet
	require.NoError(t, db.First(&tweet, "id = ?", tweetID).Error)
	return tweet.CommentCount
}

// replyLikeCount reads the denormalized like counter off a reply row.
func replyLikeCount(t *testing.T, db *gorm.DB, replyID int) int {
	t.Helper()
	var reply domain.Reply
	require.NoError(t, db.First(&reply, "id = ?", replyID).Error)
	return reply.LikeCount
}

// countRows counts the records of the given model matching the query.
func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)
	return int(count)
}
