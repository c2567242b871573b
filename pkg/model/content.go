package model

import "time"

type Testimonial struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Testimonial string    `json:"testimonial"`
	Rating      int       `json:"rating"`
	AvatarURL   *string   `json:"avatar_url"`
	Featured    bool      `json:"featured"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Testimonial) TableName() string { return "testimonials" }

type ContactMessage struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" validate:"required,max=255"`
	Email     string    `json:"email" validate:"required,email"`
	Subject   string    `json:"subject" validate:"max=255"`
	Message   string    `json:"message" validate:"required,max=5000"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

// SiteContent is an editable block of page copy
type SiteContent struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Section     string    `json:"section"`
	ContentKey  string    `json:"content_key"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Language    string    `json:"language"`
	OrderIndex  int       `json:"order_index"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SiteContent) TableName() string { return "site_content" }

// Migration is one row of the applied-migrations ledger
type Migration struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Checksum   string    `json:"checksum"`
	ExecutedAt time.Time `json:"executed_at"`
}

type FAQ struct {
	ID         int       `json:"id" gorm:"primaryKey"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	OrderIndex int       `json:"order_index"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (FAQ) TableName() string { return "faqs" }
