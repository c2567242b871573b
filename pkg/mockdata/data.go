package mockdata

import (
	"time"

	"gorm.io/datatypes"

	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

var seededAt = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func careers() []model.Career {
	return []model.Career{
		{
			ID:                1,
			Title:             "Software Engineer",
			Description:       "Design, develop and maintain software applications and systems.",
			Category:          "Technology",
			EducationLevel:    "Bachelor's Degree",
			SkillsRequired:    []string{"Programming", "Problem Solving", "Data Structures", "Teamwork"},
			SalaryRangeMin:    400000,
			SalaryRangeMax:    2500000,
			Location:          "Srinagar, Jammu, Remote",
			CompanyTypes:      []string{"IT Services", "Startups", "Product Companies"},
			GrowthProspects:   "Excellent growth with demand across every industry.",
			OpportunitiesInJK: "Growing IT parks in Srinagar and Jammu and remote work for national firms.",
			Requirements:      "B.Tech/BCA or equivalent, strong programming fundamentals",
			Active:            true,
			CreatedAt:         seededAt,
			UpdatedAt:         seededAt,
		},
		{
			ID:                2,
			Title:             "Medical Doctor",
			Description:       "Diagnose and treat illnesses and promote public health.",
			Category:          "Healthcare",
			EducationLevel:    "MBBS",
			SkillsRequired:    []string{"Biology", "Diagnosis", "Empathy", "Communication"},
			SalaryRangeMin:    600000,
			SalaryRangeMax:    3000000,
			Location:          "Srinagar, Jammu, Anantnag",
			CompanyTypes:      []string{"Government Hospitals", "Private Clinics", "Research"},
			GrowthProspects:   "Stable demand with specialisation opportunities.",
			OpportunitiesInJK: "GMC Srinagar, GMC Jammu and SKIMS recruit regularly.",
			Requirements:      "MBBS via NEET, internship and registration",
			Active:            true,
			CreatedAt:         seededAt,
			UpdatedAt:         seededAt,
		},
		{
			// archived; kept to exercise the active filter
			ID:             3,
			Title:          "Telegraph Operator",
			Description:    "Send and receive telegraph messages.",
			Category:       "Technology",
			EducationLevel: "High School",
			SkillsRequired: []string{"Morse Code"},
			SalaryRangeMin: 100000,
			SalaryRangeMax: 200000,
			Location:       "Srinagar",
			Active:         false,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
	}
}

func colleges() []model.College {
	return []model.College{
		{
			ID:          1,
			Name:        "National Institute of Technology Srinagar",
			Location:    "Srinagar",
			CollegeType: "Engineering",
			Courses:     []string{"B.Tech", "M.Tech", "PhD"},
			Facilities:  []string{"Hostel", "Library", "Labs"},
			ContactInfo: datatypes.NewJSONType(model.ContactInfo{
				Phone:   "0194-2422032",
				Email:   "info@nitsri.ac.in",
				Address: "Hazratbal, Srinagar",
			}),
			Website:          "https://nitsri.ac.in",
			EstablishedYear:  1960,
			Ranking:          1,
			FeesRange:        datatypes.NewJSONType(model.FeesRange{Min: 100000, Max: 150000, Currency: "INR"}),
			AdmissionProcess: "JEE Main followed by JoSAA counselling",
			Eligibility:      datatypes.NewJSONType(model.Eligibility{MinimumPercentage: 75, EntranceExams: []string{"JEE Main"}}),
			Placements:       datatypes.NewJSONType(model.Placements{AveragePackage: 800000, HighestPackage: 4000000, PlacementRate: 85}),
			Active:           true,
			CreatedAt:        seededAt,
			UpdatedAt:        seededAt,
		},
		{
			ID:               2,
			Name:             "Government Medical College Jammu",
			Location:         "Jammu",
			CollegeType:      "Medical",
			Courses:          []string{"MBBS", "MD", "MS"},
			Facilities:       []string{"Hospital", "Library", "Hostel"},
			ContactInfo:      datatypes.NewJSONType(model.ContactInfo{Phone: "0191-2584247", Email: "principal@gmcjammu.nic.in"}),
			Website:          "https://gmcjammu.nic.in",
			EstablishedYear:  1973,
			Ranking:          2,
			FeesRange:        datatypes.NewJSONType(model.FeesRange{Min: 50000, Max: 80000, Currency: "INR"}),
			AdmissionProcess: "NEET UG followed by state counselling",
			Eligibility:      datatypes.NewJSONType(model.Eligibility{MinimumPercentage: 50, EntranceExams: []string{"NEET UG"}}),
			Placements:       datatypes.NewJSONType(model.Placements{PlacementRate: 100}),
			Active:           true,
			CreatedAt:        seededAt,
			UpdatedAt:        seededAt,
		},
		{
			ID:          3,
			Name:        "Closed Polytechnic Institute",
			Location:    "Srinagar",
			CollegeType: "Engineering",
			Active:      false,
			CreatedAt:   seededAt,
			UpdatedAt:   seededAt,
		},
	}
}

func quizQuestions() []model.QuizQuestion {
	q := func(id int, text, category string, options ...string) model.QuizQuestion {
		return model.QuizQuestion{
			ID:           id,
			Question:     text,
			QuestionType: model.QuestionTypeMultipleChoice,
			Options:      options,
			Category:     category,
			OrderIndex:   id,
			Active:       true,
			CreatedAt:    seededAt,
		}
	}
	return []model.QuizQuestion{
		q(1, "Which subjects do you enjoy the most?", "interests",
			"Mathematics and Physics", "Biology and Chemistry", "History and Languages", "Business and Economics"),
		q(2, "How do you prefer to spend your free time?", "personality",
			"Building or coding things", "Helping people", "Reading and writing", "Organising events"),
		q(3, "What kind of work environment suits you?", "environment",
			"Office or lab", "Hospital or clinic", "Outdoors", "Travelling"),
	}
}

func testimonials() []model.Testimonial {
	return []model.Testimonial{
		{
			ID:          1,
			Name:        "Aisha Mir",
			Role:        "Software Engineer",
			Company:     "Tech Startup, Srinagar",
			Testimonial: "The career quiz pointed me towards engineering and the college guide helped me pick NIT Srinagar.",
			Rating:      5,
			Featured:    true,
			Active:      true,
			CreatedAt:   seededAt,
		},
		{
			ID:          2,
			Name:        "Rahul Sharma",
			Role:        "Medical Student",
			Company:     "GMC Jammu",
			Testimonial: "Clear information on NEET and local medical colleges made my decision easy.",
			Rating:      5,
			Featured:    false,
			Active:      true,
			CreatedAt:   seededAt,
		},
	}
}
