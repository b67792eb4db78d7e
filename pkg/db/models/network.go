package models

// Network is a mobile operator. MCCMNC is the combined country+network code;
// it identifies the network globally and is unique when present.
type Network struct {
	ID        int64    `gorm:"column:id;primaryKey"`
	CountryID *int64   `gorm:"column:country_id"`
	Country   *Country `gorm:"foreignKey:CountryID;constraint:OnDelete:SET NULL"`
	Name      string   `gorm:"column:name;not null"`
	MNC       string   `gorm:"column:mnc;size:8"`
	MCCMNC    string   `gorm:"column:mccmnc;size:12"`
}

func (Network) TableName() string {
	return "networks"
}
