package domain

import (
	"fmt"
	"mime/multipart"
	"net/url"
)

const (
	// OwnerTypeAvatar expresses that an Image is a user's profile picture.
	OwnerTypeAvatar = "avatar"
	// OwnerTypeCover expresses that an Image is a user's profile cover.
	OwnerTypeCover = "cover"
	// ImagesBaseDir determines the general storage location of uploaded images.
	ImagesBaseDir = "images"
)

// Image represents an image to be uploaded. Images are only stored as files
// in the filesystem and have no dedicated table in the database. An Image
// always belongs to a user profile, either as its avatar or as its cover,
// depending on OwnerType. The exact user it belongs to is determined by
// OwnerID. Since Images are not database records, the relationship lives in
// the storage path: the avatar of the user with ID 1 is stored in
// images/avatar/1/unique_name.jpeg. The resulting URL is what gets persisted
// on the user record, so to the rest of the app an upload is just something
// that returns a URL or fails.
type Image struct {
	URL         string `json:"url"`
	OwnerType   string `json:"-"`
	OwnerID     int    `json:"-"`
	File        multipart.File `json:"-"`
	Filename    string `json:"-"`
	Extension   string `json:"-"`
	ContentType string `json:"-"`
	Size        int64  `json:"-"`
}

// ImageService is a set of methods to manipulate and work with the Image model
// and respective image files.
type ImageService interface {
	Create(image *Image) error
	ByOwner(ownerType string, ownerID int) ([]Image, error)
	Delete(i *Image) error
	DeleteAll(ownerType string, ownerID int) error
}

// Path returns the url path of an image stored in the filesystem.
func (i *Image) Path() string {
	temp := url.URL{
		Path: "/" + i.RelativePath(),
	}
	return temp.String()
}

// RelativePath returns the relative path to an image stored in the filesystem.
func (i *Image) RelativePath() string {
	return fmt.Sprintf("%v/%v/%v/%v", ImagesBaseDir, i.OwnerType, i.OwnerID, i.Filename)
}
