// Package model defines the records served by the career compass API.
package model

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Career is one career path with its market data
type Career struct {
	ID                int            `json:"id" gorm:"primaryKey"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	EducationLevel    string         `json:"education_level"`
	SkillsRequired    pq.StringArray `json:"skills_required" gorm:"type:text[]"`
	SalaryRangeMin    int            `json:"salary_range_min"`
	SalaryRangeMax    int            `json:"salary_range_max"`
	Location          string         `json:"location"`
	CompanyTypes      pq.StringArray `json:"company_types" gorm:"type:text[]"`
	GrowthProspects   string         `json:"growth_prospects"`
	OpportunitiesInJK string         `json:"opportunities_in_jk" gorm:"column:opportunities_in_jk"`
	Requirements      string         `json:"requirements"`
	Active            bool           `json:"active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (Career) TableName() string { return "careers" }

// Validate checks the salary range invariant
func (c Career) Validate() error {
	if c.SalaryRangeMin > c.SalaryRangeMax {
		return fmt.Errorf("career %q: salary_range_min %d exceeds salary_range_max %d",
			c.Title, c.SalaryRangeMin, c.SalaryRangeMax)
	}
	return nil
}

// CareerFilter narrows a career listing. Empty fields match everything.
type CareerFilter struct {
	Category       string
	Location       string
	EducationLevel string
	Search         string
}
