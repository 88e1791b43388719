package model

import "time"

// CatalogKind selects one of the clinical lookup catalogs.
type CatalogKind string

const (
	CatalogAllergies   CatalogKind = "allergies"
	CatalogMedications CatalogKind = "medications"
	CatalogDiagnoses   CatalogKind = "diagnoses"
	CatalogAntecedents CatalogKind = "antecedents"
)

func (k CatalogKind) Valid() bool {
	switch k {
	case CatalogAllergies, CatalogMedications, CatalogDiagnoses, CatalogAntecedents:
		return true
	}
	return false
}

// CatalogItem is one entry of a clinical lookup catalog.
type CatalogItem struct {
	ID        int64       `db:"id" json:"id"`
	Kind      CatalogKind `db:"kind" json:"kind"`
	Code      string      `db:"code" json:"code"`
	Nombre    string      `db:"nombre" json:"nombre"`
	Active    bool        `db:"active" json:"active"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
