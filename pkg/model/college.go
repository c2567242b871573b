package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type ContactInfo struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// FeesRange is expressed in rupees per year
type FeesRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency,omitempty"`
}

type Eligibility struct {
	MinimumPercentage int      `json:"minimum_percentage,omitempty"`
	EntranceExams     []string `json:"entrance_exams,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

type Placements struct {
	AveragePackage int      `json:"average_package,omitempty"`
	HighestPackage int      `json:"highest_package,omitempty"`
	PlacementRate  int      `json:"placement_rate,omitempty"`
	TopRecruiters  []string `json:"top_recruiters,omitempty"`
}

// College is an institution offering courses in or around the region.
// A lower Ranking is better; zero means unranked.
type College struct {
	ID               int                               `json:"id" gorm:"primaryKey"`
	Name             string                            `json:"name"`
	Location         string                            `json:"location"`
	CollegeType      string                            `json:"college_type"`
	Courses          pq.StringArray                    `json:"courses" gorm:"type:text[]"`
	Facilities       pq.StringArray                    `json:"facilities" gorm:"type:text[]"`
	ContactInfo      datatypes.JSONType[ContactInfo]   `json:"contact_info"`
	Website          string                            `json:"website"`
	EstablishedYear  int                               `json:"established_year"`
	Ranking          int                               `json:"ranking"`
	FeesRange        datatypes.JSONType[FeesRange]     `json:"fees_range"`
	AdmissionProcess string                            `json:"admission_process"`
	Eligibility      datatypes.JSONType[Eligibility]   `json:"eligibility"`
	Placements       datatypes.JSONType[Placements]    `json:"placements"`
	Active           bool                              `json:"active"`
	CreatedAt        time.Time                         `json:"created_at"`
	UpdatedAt        time.Time                         `json:"updated_at"`
}

func (College) TableName() string { return "colleges" }

// CollegeFilter narrows a college listing. Empty fields match everything.
type CollegeFilter struct {
	Location    string
	CollegeType string
	Search      string
}
