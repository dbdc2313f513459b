package model

import (
	"net/url"

	"github.com/iliyamo/labquiz/internal/search"
)

// Chemical represents a row in the `chemicals` table.
type Chemical struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	Formula         *string `json:"formula"`
	StorageLocation *string `json:"storage_location"`
}

type NewChemical struct {
	Name            string  `json:"name"`
	Formula         *string `json:"formula"`
	StorageLocation *string `json:"storage_location"`
}

type PartialChemical struct {
	Name            *string          `json:"name"`
	Formula         Nullable[string] `json:"formula"`
	StorageLocation Nullable[string] `json:"storage_location"`
}

type ChemicalSearch struct {
	Name            search.Term[string]
	Formula         search.NullableTerm[string]
	StorageLocation search.NullableTerm[string]
}

type ChemicalList struct {
	Chemicals []Chemical `json:"chemicals"`
}

func ParseChemicalSearch(values url.Values) (ChemicalSearch, error) {
	b := search.NewBinder(values)
	s := ChemicalSearch{
		Name:            search.BindTerm(b, "name", search.String),
		Formula:         search.BindNullable(b, "formula", search.String),
		StorageLocation: search.BindNullable(b, "storage_location", search.String),
	}
	return s, b.Err()
}
