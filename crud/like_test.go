package crud

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// seedReply creates a reply record directly, bypassing the validation chain.
func seedReply(t *testing.T, db *gorm.DB, tweetID, userID int) *domain.Reply {
	t.Helper()
	reply := &domain.Reply{TweetID: tweetID, UserID: userID, Comment: "hi"}
	require.NoError(t, db.Create(reply).Error)
	return reply
}

func TestLikeCreate(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	tweet := seedTweet(t, db, author.ID)
	reply := seedReply(t, db, tweet.ID, author.ID)

	require.NoError(t, ls.Create(&domain.Like{UserID: viewer.ID, ReplyID: reply.ID}))
	assert.Equal(t, 1, replyLikeCount(t, db, reply.ID))
	assert.Equal(t, 1, countRows(t, db, &domain.Like{}, "reply_id = ?", reply.ID))

	// A second like of the same pair is a conflict and must not create a
	// second row or increment the counter twice.
	err := ls.Create(&domain.Like{UserID: viewer.ID, ReplyID: reply.ID})
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
	assert.Equal(t, 1, replyLikeCount(t, db, reply.ID))
	assert.Equal(t, 1, countRows(t, db, &domain.Like{}, "reply_id = ?", reply.ID))
}

func TestLikeCreateReplyMissing(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	viewer := seedUser(t, db, "viewer")

	err := ls.Create(&domain.Like{UserID: viewer.ID, ReplyID: 9999})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	assert.Zero(t, countRows(t, db, &domain.Like{}, "reply_id = ?", 9999))
}

// The validator's existence check is only a fast path. The unique index must
// reject a duplicate insert even when the check is skipped, as happens when
// two like requests race.
func TestLikeCreateUniqueIndexIsAuthoritative(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	tweet := seedTweet(t, db, author.ID)
	reply := seedReply(t, db, tweet.ID, author.ID)

	require.NoError(t, ls.Create(&domain.Like{UserID: viewer.ID, ReplyID: reply.ID}))

	// Straight to the gorm layer, past the validator.
	err := ls.likeGorm.Create(&domain.Like{UserID: viewer.ID, ReplyID: reply.ID})
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
	assert.Equal(t, 1, replyLikeCount(t, db, reply.ID))
	assert.Equal(t, 1, countRows(t, db, &domain.Like{}, "reply_id = ?", reply.ID))
}

func TestLikeCreateConcurrent(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	tweet := seedTweet(t, db, author.ID)
	reply := seedReply(t, db, tweet.ID, author.ID)

	const n = 8
	viewers := make([]*domain.User, n)
	for i := range viewers {
		viewers[i] = seedUser(t, db, fmt.Sprintf("viewer%d", i))
	}

	errc := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			errc <- ls.Create(&domain.Like{UserID: userID, ReplyID: reply.ID})
		}(viewers[i].ID)
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		require.NoError(t, err)
	}

	// No increment may get lost under concurrent liking.
	assert.Equal(t, n, replyLikeCount(t, db, reply.ID))
	assert.Equal(t, n, countRows(t, db, &domain.Like{}, "reply_id = ?", reply.ID))
}

func TestLikeDelete(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	tweet := seedTweet(t, db, author.ID)
	reply := seedReply(t, db, tweet.ID, author.ID)

	require.NoError(t, ls.Create(&domain.Like{UserID: viewer.ID, ReplyID: reply.ID}))

	// First unlike succeeds and decrements the counter.
	require.NoError(t, ls.Delete(&domain.Like{UserID: viewer.ID, ReplyID: reply.ID}))
	assert.Equal(t, 0, replyLikeCount(t, db, reply.ID))
	assert.Zero(t, countRows(t, db, &domain.Like{}, "reply_id = ?", reply.ID))

	// Second unlike is a failed precondition and leaves the counter alone.
	err := ls.Delete(&domain.Like{UserID: viewer.ID, ReplyID: reply.ID})
	assert.Equal(t, errs.EPRECONDITION, errs.ErrorCode(err))
	assert.Equal(t, 0, replyLikeCount(t, db, reply.ID))

	// Unliking a missing reply is not found rather than a failed precondition.
	err = ls.Delete(&domain.Like{UserID: viewer.ID, ReplyID: 9999})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

// The like counter must equal the number of like rows after any sequence of
// add and remove operations.
func TestLikeCounterMatchesRows(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	a := seedUser(t, db, "usera")
	b := seedUser(t, db, "userb")
	tweet := seedTweet(t, db, author.ID)
	reply := seedReply(t, db, tweet.ID, author.ID)

	checkInvariant := func() {
		t.Helper()
		assert.Equal(t,
			countRows(t, db, &domain.Like{}, "reply_id = ?", reply.ID),
			replyLikeCount(t, db, reply.ID))
	}

	require.NoError(t, ls.Create(&domain.Like{UserID: a.ID, ReplyID: reply.ID}))
	checkInvariant()
	require.NoError(t, ls.Create(&domain.Like{UserID: b.ID, ReplyID: reply.ID}))
	checkInvariant()
	assert.Error(t, ls.Create(&domain.Like{UserID: a.ID, ReplyID: reply.ID}))
	checkInvariant()
	require.NoError(t, ls.Delete(&domain.Like{UserID: a.ID, ReplyID: reply.ID}))
	checkInvariant()
	assert.Error(t, ls.Delete(&domain.Like{UserID: a.ID, ReplyID: reply.ID}))
	checkInvariant()
	require.NoError(t, ls.Delete(&domain.Like{UserID: b.ID, ReplyID: reply.ID}))
	checkInvariant()
	assert.Equal(t, 0, replyLikeCount(t, db, reply.ID))
}

func TestAuthLikes(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	tweet := seedTweet(t, db, author.ID)
	reply := seedReply(t, db, tweet.ID, author.ID)

	assert.False(t, ls.AuthLikes(viewer.ID, reply.ID))
	require.NoError(t, ls.Create(&domain.Like{UserID: viewer.ID, ReplyID: reply.ID}))
	assert.True(t, ls.AuthLikes(viewer.ID, reply.ID))
	assert.False(t, ls.AuthLikes(author.ID, reply.ID))
}
