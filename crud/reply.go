package crud

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// ReplyService manages Replies and keeps the parent tweet's comment counter
// in sync with the reply collection.
// It implements the domain.ReplyService interface.
type ReplyService struct {
	replyValidator
}

// replyValidator runs validations on incoming Reply data.
// On success, it passes the data on to replyGorm.
// Otherwise, it returns the error of the validation that has failed.
type replyValidator struct {
	replyGorm
}

// replyGorm runs CRUD operations on the database using incoming Reply data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type replyGorm struct {
	db *gorm.DB
}

// NewReplyService returns an instance of ReplyService.
func NewReplyService(db *gorm.DB) *ReplyService {
	return &ReplyService{
		replyValidator{
			replyGorm{
				db: db,
			},
		},
	}
}

// Ensure the ReplyService struct properly implements the domain.ReplyService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ReplyService = &ReplyService{}

// Create runs validations needed for creating new Reply database records.
func (rv *replyValidator) Create(reply *domain.Reply) error {
	err := runReplyValFns(reply,
		rv.userIdValid,
		rv.commentNormalize,
		rv.commentRequired,
		rv.commentMaxLength,
		rv.repliedTweetExists)
	if err != nil {
		return err
	}
	return rv.replyGorm.Create(reply)
}

// Delete checks that the reply exists and that the requester is either the
// reply's author or the author of the parent tweet, then deletes the record.
func (rv *replyValidator) Delete(id, requesterID int) error {
	reply, err := rv.replyGorm.ByID(id)
	if err != nil {
		return err
	}
	var tweet domain.Tweet
	if err := rv.db.First(&tweet, "id = ?", reply.TweetID).Error; err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if requesterID != reply.UserID && requesterID != tweet.UserID {
		return errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to delete this reply.")
	}
	return rv.replyGorm.Delete(reply)
}

// runReplyValFns runs any number of functions of type replyValFn on the passed in Reply object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runReplyValFns(reply *domain.Reply, fns ...replyValFn) error {
	for _, fn := range fns {
		if err := fn(reply); err != nil {
			return err
		}
	}
	return nil
}

// A replyValFn is any function that takes in a pointer to a domain.Reply object and returns an error.
type replyValFn func(reply *domain.Reply) error

// commentNormalize trims surrounding whitespace off the comment.
func (rv *replyValidator) commentNormalize(reply *domain.Reply) error {
	reply.Comment = strings.TrimSpace(reply.Comment)
	return nil
}

// commentRequired makes sure that the reply's comment is not empty.
func (rv *replyValidator) commentRequired(reply *domain.Reply) error {
	if reply.Comment == "" {
		return errs.Errorf(errs.EINVALID, "The comment must not be empty.")
	}
	return nil
}

// commentMaxLength makes sure that the comment does not exceed the maximum comment length.
func (rv *replyValidator) commentMaxLength(reply *domain.Reply) error {
	if utf8.RuneCountInString(reply.Comment) > domain.MaxCommentLength {
		return errs.Errorf(errs.EINVALID, "The comment must not have more than %d characters.", domain.MaxCommentLength)
	}
	return nil
}

// repliedTweetExists makes sure that the tweet to be replied to actually exists.
func (rv *replyValidator) repliedTweetExists(reply *domain.Reply) error {
	err := rv.db.First(&domain.Tweet{}, "id = ?", reply.TweetID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The tweet replied to does not exist.")
		}
		return err
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (rv *replyValidator) userIdValid(reply *domain.Reply) error {
	if reply.UserID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

// ByID retrieves a single Reply by ID, along with its author.
func (rg *replyGorm) ByID(id int) (*domain.Reply, error) {
	var reply domain.Reply
	err := rg.db.
		Preload("User").
		First(&reply, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The reply does not exist.")
		}
		return nil, err
	}
	return &reply, nil
}

// ByTweetID retrieves all replies of a tweet, newest first, along with their
// authors. A tweet without replies yields an empty slice, not an error.
func (rg *replyGorm) ByTweetID(tweetID int) ([]domain.Reply, error) {
	var replies []domain.Reply
	err := rg.db.
		Where("tweet_id = ?", tweetID).
		Preload("User").
		Order("created_at desc").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// Create stores the data from the Reply object in a new database record and
// increments the parent tweet's comment counter. Both writes run in a single
// transaction and the counter update is a relative expression on the tweet
// row, so concurrent replies to the same tweet cannot lose increments and a
// failure between the two writes leaves no half-applied state behind.
func (rg *replyGorm) Create(reply *domain.Reply) error {
	err := rg.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		res := tx.Model(&domain.Tweet{}).
			Where("id = ?", reply.TweetID).
			Update("comment_count", gorm.Expr("comment_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected < 1 {
			return errs.Errorf(errs.ENOTFOUND, "The tweet replied to does not exist.")
		}
		return nil
	})
	if err != nil {
		return err
	}
	return rg.db.Preload("User").First(reply, "id = ?", reply.ID).Error
}

// Delete permanently deletes the reply record. The parent tweet's comment
// counter stays untouched, mirroring the original app's behavior.
func (rg *replyGorm) Delete(reply *domain.Reply) error {
	return rg.db.Delete(&domain.Reply{}, "id = ?", reply.ID).Error
}
