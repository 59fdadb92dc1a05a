package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

func TestFollowCreate(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	follower := seedUser(t, db, "follower")
	followed := seedUser(t, db, "followed")

	require.NoError(t, fs.Create(&domain.Follow{FollowerID: follower.ID, FollowedID: followed.ID}))
	assert.Equal(t, 1, countRows(t, db, &domain.Follow{}, "follower_id = ?", follower.ID))

	t.Run("already followed", func(t *testing.T) {
		err := fs.Create(&domain.Follow{FollowerID: follower.ID, FollowedID: followed.ID})
		assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
	})

	t.Run("self follow", func(t *testing.T) {
		err := fs.Create(&domain.Follow{FollowerID: follower.ID, FollowedID: follower.ID})
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	})

	t.Run("missing followed user", func(t *testing.T) {
		err := fs.Create(&domain.Follow{FollowerID: follower.ID, FollowedID: 9999})
		assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	})
}

func TestFollowDelete(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	follower := seedUser(t, db, "follower")
	followed := seedUser(t, db, "followed")

	require.NoError(t, fs.Create(&domain.Follow{FollowerID: follower.ID, FollowedID: followed.ID}))
	require.NoError(t, fs.Delete(&domain.Follow{FollowerID: follower.ID, FollowedID: followed.ID}))
	assert.Zero(t, countRows(t, db, &domain.Follow{}, "follower_id = ?", follower.ID))

	err := fs.Delete(&domain.Follow{FollowerID: follower.ID, FollowedID: followed.ID})
	assert.Equal(t, errs.EPRECONDITION, errs.ErrorCode(err))
}
