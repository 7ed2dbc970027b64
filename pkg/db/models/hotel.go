package models

// Hotel is the directory entry exposing a display name for a property.
type Hotel struct {
	HotelID   int    `gorm:"column:hotel_id;primaryKey" json:"hotel_id"`
	HotelName string `gorm:"column:hotel_name;size:100;not null;uniqueIndex" json:"hotel_name"`
	Location  string `gorm:"column:location;size:100;not null" json:"location"`
}

func (Hotel) TableName() string { return "hotel" }
