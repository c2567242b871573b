package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const QuestionTypeMultipleChoice = "multiple_choice"

type QuizQuestion struct {
	ID           int            `json:"id" gorm:"primaryKey"`
	Question     string         `json:"question"`
	QuestionType string         `json:"question_type"`
	Options      pq.StringArray `json:"options" gorm:"type:text[]"`
	Category     string         `json:"category"`
	OrderIndex   int            `json:"order_index"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }

// QuizResult is a submitted set of answers and the recommendations made for it
type QuizResult struct {
	ID              string         `json:"id" gorm:"primaryKey"`
	UserID          string         `json:"user_id"`
	Answers         datatypes.JSON `json:"answers"`
	Recommendations datatypes.JSON `json:"recommendations"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (QuizResult) TableName() string { return "quiz_results" }
