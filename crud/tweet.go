package crud

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// TweetService manages Tweets.
// It implements the domain.TweetService interface.
type TweetService struct {
	tweetValidator
}

// tweetValidator runs validations on incoming Tweet data.
// On success, it passes the data on to tweetGorm.
// Otherwise, it returns the error of the validation that has failed.
type tweetValidator struct {
	tweetGorm
}

// tweetGorm runs CRUD operations on the database using incoming Tweet data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type tweetGorm struct {
	db *gorm.DB
}

// NewTweetService returns an instance of TweetService.
func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db: db,
			},
		},
	}
}

// Ensure the TweetService struct properly implements the domain.TweetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TweetService = &TweetService{}

// Create runs validations needed for creating new Tweet database records.
func (tv *tweetValidator) Create(tweet *domain.Tweet) error {
	err := runTweetValFns(tweet,
		tv.userIdValid,
		tv.contentNormalize,
		tv.contentRequired,
		tv.contentMaxLength)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Create(tweet)
}

// Delete makes sure the tweet exists and belongs to the requester,
// then deletes the record.
func (tv *tweetValidator) Delete(id, requesterID int) error {
	tweet, err := tv.tweetGorm.ByID(id)
	if err != nil {
		return err
	}
	if tweet.UserID != requesterID {
		return errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to delete this tweet.")
	}
	return tv.tweetGorm.Delete(tweet)
}

// runTweetValFns runs any number of functions of type tweetValFn on the passed in Tweet object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runTweetValFns(tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tweet); err != nil {
			return err
		}
	}
	return nil
}

// A tweetValFn is any function that takes in a pointer to a domain.Tweet object and returns an error.
type tweetValFn func(tweet *domain.Tweet) error

// contentNormalize trims surrounding whitespace off the tweet's content.
func (tv *tweetValidator) contentNormalize(tweet *domain.Tweet) error {
	tweet.Content = strings.TrimSpace(tweet.Content)
	return nil
}

// contentRequired makes sure that the tweet's content is not empty.
func (tv *tweetValidator) contentRequired(tweet *domain.Tweet) error {
	if tweet.Content == "" {
		return errs.Errorf(errs.EINVALID, "The tweet content must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure that the content does not exceed the maximum content length.
func (tv *tweetValidator) contentMaxLength(tweet *domain.Tweet) error {
	if utf8.RuneCountInString(tweet.Content) > domain.MaxCommentLength {
		return errs.Errorf(errs.EINVALID, "The tweet content must not have more than %d characters.", domain.MaxCommentLength)
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (tv *tweetValidator) userIdValid(tweet *domain.Tweet) error {
	if tweet.UserID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

// ByID retrieves a single Tweet by ID, along with its author.
func (tg *tweetGorm) ByID(id int) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := tg.db.
		Preload("User").
		First(&tweet, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The tweet does not exist.")
		}
		return nil, err
	}
	return &tweet, nil
}

// Create stores the data from the Tweet object in a new database record.
func (tg *tweetGorm) Create(tweet *domain.Tweet) error {
	if err := tg.db.Create(tweet).Error; err != nil {
		return err
	}
	return tg.db.Preload("User").First(tweet, "id = ?", tweet.ID).Error
}

// Delete permanently deletes a Tweet record from the database, along with
// its replies and their likes.
func (tg *tweetGorm) Delete(tweet *domain.Tweet) error {
	return tg.db.Transaction(func(tx *gorm.DB) error {
		var replyIDs []int
		if err := tx.Model(&domain.Reply{}).Where("tweet_id = ?", tweet.ID).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		if len(replyIDs) > 0 {
			if err := tx.Delete(&domain.Like{}, "reply_id IN ?", replyIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&domain.Reply{}, "id IN ?", replyIDs).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Tweet{}, "id = ?", tweet.ID).Error
	})
}
