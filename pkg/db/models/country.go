package models

// Country groups networks under a destination. A country can answer to up to
// three mobile country codes (primary plus two alternates).
type Country struct {
	ID   int64   `gorm:"column:id;primaryKey"`
	Name string  `gorm:"column:name;not null;uniqueIndex"`
	MCC  string  `gorm:"column:mcc;size:4"`
	MCC2 *string `gorm:"column:mcc2;size:4"`
	MCC3 *string `gorm:"column:mcc3;size:4"`
}

func (Country) TableName() string {
	return "countries"
}
