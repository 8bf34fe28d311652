package convert

import (
	"github.com/zapponejosh/julian/internal/database"
	"github.com/zapponejosh/julian/internal/format"
)

// Region is an adoption record with its boundary dates rendered.
type Region struct {
	database.Adoption `yaml:",inline"`
	FirstGregorian    string `json:"first_gregorian" yaml:"first_gregorian"`
	LastJulian        string `json:"last_julian" yaml:"last_julian"`
}

// NewRegion renders the first New Style and last Old Style days of a.
func NewRegion(a database.Adoption) (Region, error) {
	region := Region{Adoption: a}

	first, err := a.FirstGregorian()
	if err != nil {
		return Region{}, err
	}
	if region.FirstGregorian, err = format.Calendar(first, format.Options{}); err != nil {
		return Region{}, err
	}

	last, err := a.LastJulian()
	if err != nil {
		return Region{}, err
	}
	if region.LastJulian, err = format.OldStyle(last, format.Options{}); err != nil {
		return Region{}, err
	}
	return region, nil
}

// ForRegion returns the Old Style policy of a region: Julian dates are shown
// from the Reformation until its adoption.
func ForRegion(a database.Adoption) OldStyle {
	return OldStyle{Mode: ModeReform, Cutover: a.FirstGregorianJDN}
}
