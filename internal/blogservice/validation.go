package blogservice

import (
	"github.com/elmwoodlabs/quillpress/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

func validateDescription(v *common.Validator, description string) {
	v.Check(description != "", "description", "must be provided")
}

func validateCategory(v *common.Validator, category Category) {
	v.Check(category != "", "category", "must be provided")
	v.Check(common.CheckPermittedValue(category, Categories...), "category", "must be a known category")
}

func validateImage(v *common.Validator, req *CreateBlogRequest) {
	v.Check(req.Image != nil, "image", "must be provided")
	v.Check(req.ImageName != "", "image", "must have a file name")
}
