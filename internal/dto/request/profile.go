package request

import (
	"fmt"
	"time"

	"movie-catalog/pkg/utils"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxAvatarSize = 1 << 20 // 1 MB
	DateLayout    = "2006-01-02"
)

var supportedAvatarTypes = []string{"image/jpeg", "image/png"}

// ProfileCreateRequest is the multipart form of POST /users/{user_id}/profile
type ProfileCreateRequest struct {
	Gender         string    `form:"gender" validate:"required,oneof=male female"`
	DateOfBirth    time.Time `form:"date_of_birth" validate:"required,adult"`
	Info           string    `form:"info" validate:"max=2000"`
	AvatarFilename string    `form:"avatar" validate:"required"`
	AvatarContent  []byte    `form:"-"`
}

// Validate returns field -> message, or nil
func (r *ProfileCreateRequest) Validate() map[string]string {
	errs := utils.ValidateStruct(r)
	if msg := AvatarProblem(r.AvatarContent); msg != "" && r.AvatarFilename != "" {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["avatar"] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// AvatarProblem returns "" when content is a JPEG or PNG image of at most 1 MB
func AvatarProblem(content []byte) string {
	if len(content) > MaxAvatarSize {
		return "Image size exceeds 1 MB"
	}
	if len(content) == 0 {
		return "Invalid image format"
	}
	mtype := mimetype.Detect(content)
	if !mimetype.EqualsAny(mtype.String(), supportedAvatarTypes...) {
		return fmt.Sprintf("Unsupported image format: %s. Use one of next: [JPG JPEG PNG]", mtype.Extension())
	}
	return ""
}
