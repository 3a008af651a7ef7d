package model

// Geographic hierarchy: Country → Province → City → District → Sector →
// Cell → Village. Houses reference the leaf (Village); the chain is used
// only for filtering and the cascading location dropdowns.

type Country struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);not null"`
}

type Province struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CountryID uint   `json:"country_id" gorm:"index;not null"`
	Name      string `json:"name" gorm:"type:varchar(100);not null"`

	Country Country `json:"-" gorm:"foreignKey:CountryID"`
}

type City struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ProvinceID uint   `json:"province_id" gorm:"index;not null"`
	Name       string `json:"name" gorm:"type:varchar(100);not null"`

	Province Province `json:"-" gorm:"foreignKey:ProvinceID"`
}

type District struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	CityID uint   `json:"city_id" gorm:"index;not null"`
	Name   string `json:"name" gorm:"type:varchar(100);not null"`

	City City `json:"-" gorm:"foreignKey:CityID"`
}

type Sector struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	DistrictID uint   `json:"district_id" gorm:"index;not null"`
	Name       string `json:"name" gorm:"type:varchar(100);not null"`

	District District `json:"-" gorm:"foreignKey:DistrictID"`
}

type Cell struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	SectorID uint   `json:"sector_id" gorm:"index;not null"`
	Name     string `json:"name" gorm:"type:varchar(100);not null"`

	Sector Sector `json:"-" gorm:"foreignKey:SectorID"`
}

type Village struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	CellID uint   `json:"cell_id" gorm:"index;not null"`
	Name   string `json:"name" gorm:"type:varchar(100);not null"`

	Cell Cell `json:"-" gorm:"foreignKey:CellID"`
}
