package types

// ProviderResult is one joined row of Provider x Procedure x optional
// Rating plus the distance from the reference point. Monetary fields and
// rating are pointers: absent in the corpus means absent here, never zero.
type ProviderResult struct {
	ProviderID              string   `gorm:"column:provider_id" json:"provider_id"`
	Name                    string   `gorm:"column:name" json:"name"`
	City                    *string  `gorm:"column:city" json:"city"`
	State                   *string  `gorm:"column:state" json:"state"`
	ZipCode                 *string  `gorm:"column:zip_code" json:"zip_code"`
	MsDrgDefinition         string   `gorm:"column:ms_drg_definition" json:"ms_drg_definition"`
	AverageCoveredCharges   *float64 `gorm:"column:average_covered_charges" json:"average_covered_charges"`
	AverageTotalPayments    *float64 `gorm:"column:average_total_payments" json:"average_total_payments,omitempty"`
	AverageMedicarePayments *float64 `gorm:"column:average_medicare_payments" json:"average_medicare_payments,omitempty"`
	Rating                  *int     `gorm:"column:rating" json:"rating,omitempty"`
	DistanceKm              *float64 `gorm:"column:distance_km" json:"distance_km,omitempty"`
}
