package model

type Category struct {
	Id int64 `gorm:"column:id; primaryKey; not null" json:"id"`

	Name     string `gorm:"column:name; size:255; not null; uniqueIndex" json:"name"`
	ImageURL string `gorm:"column:image_url; size:512" json:"image_url,omitempty"`

	IsPrivate bool `gorm:"column:is_private; not null" json:"is_private"`
	IsLocked  bool `gorm:"column:is_locked; not null" json:"is_locked"`
}

func (*Category) TableName() string {
	return "categories"
}
