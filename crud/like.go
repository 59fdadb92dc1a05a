package crud

import (
	"errors"

	"gorm.io/gorm"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// LikeService manages Likes and keeps the liked reply's like counter in sync
// with the Like collection.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Create runs validations needed for creating new Like database records.
func (lv *likeValidator) Create(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.userIdValid,
		lv.likedReplyExists,
		lv.notAlreadyLiked)
	if err != nil {
		return err
	}
	return lv.likeGorm.Create(like)
}

// Delete runs validations needed for deleting existing Like database records.
func (lv *likeValidator) Delete(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.userIdValid,
		lv.likeExists)
	if err != nil {
		return err
	}
	return lv.likeGorm.Delete(like)
}

// runLikeValFns runs any number of functions of type likeValFn on the passed in Like object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runLikeValFns(like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a pointer to a domain.Like object and returns an error.
type likeValFn func(like *domain.Like) error

// likeExists makes sure that the Like record to be deleted actually exists.
// If it doesn't, the error depends on whether the reply itself exists: unliking
// a missing reply is ENOTFOUND, unliking a reply that was never liked is a
// failed precondition.
func (lv *likeValidator) likeExists(like *domain.Like) error {
	err := lv.db.First(&domain.Like{}, "user_id = ? AND reply_id = ?", like.UserID, like.ReplyID).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	if err := lv.db.First(&domain.Reply{}, "id = ?", like.ReplyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The reply does not exist.")
		}
		return err
	}
	return errs.Errorf(errs.EPRECONDITION, "You have not yet liked that reply.")
}

// likedReplyExists makes sure that the reply to be liked actually exists.
func (lv *likeValidator) likedReplyExists(like *domain.Like) error {
	err := lv.db.First(&domain.Reply{}, "id = ?", like.ReplyID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The liked reply does not exist.")
		}
		return err
	}
	return nil
}

// notAlreadyLiked makes sure that the user doesn't already like the reply.
// This is only the fast path for a friendly message. The authoritative guard
// is the unique index on (user_id, reply_id), checked again on insert.
func (lv *likeValidator) notAlreadyLiked(like *domain.Like) error {
	err := lv.db.First(&domain.Like{}, "user_id = ? AND reply_id = ?", like.UserID, like.ReplyID).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already like that reply.")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

// AuthLikes takes a user ID and a reply ID and returns a boolean expressing
// whether the given user likes the given reply or not.
func (lg *likeGorm) AuthLikes(userID, replyID int) bool {
	err := lg.db.First(&domain.Like{}, "user_id = ? AND reply_id = ?", userID, replyID).Error
	return err == nil
}

// Create stores the data from the Like object in a new database record and
// increments the reply's like counter. Both writes run in a single
// transaction. A duplicate key error from the unique index means another
// request already liked the reply for this user, which surfaces as the same
// conflict the validator reports. The counter update is a relative expression
// on the reply row, so concurrent likes of the same reply cannot lose
// increments.
func (lg *likeGorm) Create(like *domain.Like) error {
	return lg.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Errorf(errs.ECONFLICT, "You already like that reply.")
			}
			return err
		}
		res := tx.Model(&domain.Reply{}).
			Where("id = ?", like.ReplyID).
			Update("like_count", gorm.Expr("like_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected < 1 {
			return errs.Errorf(errs.ENOTFOUND, "The liked reply does not exist.")
		}
		return nil
	})
}

// Delete removes the like record matching the Like object's user and reply
// and decrements the reply's like counter, both in a single transaction.
func (lg *likeGorm) Delete(like *domain.Like) error {
	return lg.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Like{}, "user_id = ? AND reply_id = ?", like.UserID, like.ReplyID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected < 1 {
			return errs.Errorf(errs.EPRECONDITION, "You have not yet liked that reply.")
		}
		return tx.Model(&domain.Reply{}).
			Where("id = ? AND like_count > 0", like.ReplyID).
			Update("like_count", gorm.Expr("like_count - 1")).Error
	})
}
