package postgres

// Provider maps the providers table. ProviderID is the external CMS
// certification number; a provider without coordinates can never match a
// radius-filtered search.
type Provider struct {
	ID         uint     `gorm:"primaryKey;autoIncrement"`
	ProviderID string   `gorm:"column:provider_id;type:varchar(32);uniqueIndex:uq_provider_provider_id;not null"`
	Name       string   `gorm:"column:name;type:varchar(255);not null"`
	City       *string  `gorm:"column:city;type:varchar(128)"`
	State      *string  `gorm:"column:state;type:varchar(8);index"`
	ZipCode    *string  `gorm:"column:zip_code;type:varchar(16);index:idx_providers_zip"`
	Latitude   *float64 `gorm:"column:latitude"`
	Longitude  *float64 `gorm:"column:longitude"`
}

func (Provider) TableName() string {
	return "providers"
}

// Procedure maps the procedures table: one price record per provider per
// DRG definition, enforced by the composite unique index.
type Procedure struct {
	ID                      uint     `gorm:"primaryKey;autoIncrement"`
	ProviderID              string   `gorm:"column:provider_id;type:varchar(32);not null;index;uniqueIndex:uq_procedure_per_provider_drg"`
	MsDrgDefinition         string   `gorm:"column:ms_drg_definition;type:varchar(255);not null;index:idx_procedures_drg;uniqueIndex:uq_procedure_per_provider_drg"`
	TotalDischarges         *int     `gorm:"column:total_discharges"`
	AverageCoveredCharges   *float64 `gorm:"column:average_covered_charges;type:decimal(14,2)"`
	AverageTotalPayments    *float64 `gorm:"column:average_total_payments;type:decimal(14,2)"`
	AverageMedicarePayments *float64 `gorm:"column:average_medicare_payments;type:decimal(14,2)"`
}

func (Procedure) TableName() string {
	return "procedures"
}

// Rating maps the ratings table: at most one row per provider, latest
// write wins.
type Rating struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	ProviderID string `gorm:"column:provider_id;type:varchar(32);not null;uniqueIndex:uq_rating_per_provider"`
	Rating     int    `gorm:"column:rating;not null"`
}

func (Rating) TableName() string {
	return "ratings"
}

// ZipCentroid maps the zip_centroids lookup table backing the geocoder.
type ZipCentroid struct {
	Zip       string  `gorm:"column:zip;type:varchar(5);primaryKey"`
	Latitude  float64 `gorm:"column:latitude;not null"`
	Longitude float64 `gorm:"column:longitude;not null"`
}

func (ZipCentroid) TableName() string {
	return "zip_centroids"
}
