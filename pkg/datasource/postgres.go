package datasource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

var _ DataSource = (*Postgres)(nil)

// Postgres reads and writes through gorm over an existing connection pool
type Postgres struct {
	db     *gorm.DB
	closer io.Closer
}

// NewPostgres wraps an open pool. closer, if not nil, is closed by Close.
func NewPostgres(sqlDB *sql.DB, closer io.Closer) (*Postgres, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening gorm: %w", err)
	}
	return &Postgres{db: gdb, closer: closer}, nil
}

func (p *Postgres) Mode() Mode { return ModePostgres }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func pattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func careerQuery(db *gorm.DB, f model.CareerFilter) *gorm.DB {
	q := db.Model(&model.Career{}).Where("active = ?", true)
	if f.Category != "" {
		q = q.Where("category ILIKE ?", pattern(f.Category))
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", pattern(f.Location))
	}
	if f.EducationLevel != "" {
		q = q.Where("education_level ILIKE ?", pattern(f.EducationLevel))
	}
	if f.Search != "" {
		p := pattern(f.Search)
		q = q.Where("(title ILIKE ? OR description ILIKE ?)", p, p)
	}
	return q.Order("id")
}

func collegeQuery(db *gorm.DB, f model.CollegeFilter) *gorm.DB {
	q := db.Model(&model.College{}).Where("active = ?", true)
	if f.Location != "" {
		q = q.Where("location ILIKE ?", pattern(f.Location))
	}
	if f.CollegeType != "" {
		q = q.Where("college_type ILIKE ?", pattern(f.CollegeType))
	}
	if f.Search != "" {
		p := pattern(f.Search)
		q = q.Where("(name ILIKE ? OR location ILIKE ?)", p, p)
	}
	return q.Order("ranking NULLS LAST").Order("id")
}

func (p *Postgres) Careers(ctx context.Context, f model.CareerFilter) ([]model.Career, error) {
	out := []model.Career{}
	if err := careerQuery(p.db.WithContext(ctx), f).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing careers: %w", err)
	}
	return out, nil
}

func (p *Postgres) Colleges(ctx context.Context, f model.CollegeFilter) ([]model.College, error) {
	out := []model.College{}
	if err := collegeQuery(p.db.WithContext(ctx), f).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing colleges: %w", err)
	}
	return out, nil
}

func (p *Postgres) QuizQuestions(ctx context.Context) ([]model.QuizQuestion, error) {
	out := []model.QuizQuestion{}
	err := p.db.WithContext(ctx).Where("active = ?", true).Order("order_index").Order("id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing quiz questions: %w", err)
	}
	return out, nil
}

func (p *Postgres) Testimonials(ctx context.Context) ([]model.Testimonial, error) {
	out := []model.Testimonial{}
	err := p.db.WithContext(ctx).Where("active = ?", true).Order("featured DESC").Order("id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing testimonials: %w", err)
	}
	return out, nil
}

func (p *Postgres) SaveQuizResult(ctx context.Context, userID string, answers, recommendations any) (model.QuizResult, error) {
	a, err := json.Marshal(answers)
	if err != nil {
		return model.QuizResult{}, fmt.Errorf("encoding answers: %w", err)
	}
	r, err := json.Marshal(recommendations)
	if err != nil {
		return model.QuizResult{}, fmt.Errorf("encoding recommendations: %w", err)
	}

	rec := model.QuizResult{
		ID:              uuid.NewString(),
		UserID:          userID,
		Answers:         a,
		Recommendations: r,
		CreatedAt:       time.Now().UTC(),
	}
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.QuizResult{}, fmt.Errorf("saving quiz result: %w", err)
	}
	return rec, nil
}

func (p *Postgres) AddContactMessage(ctx context.Context, msg model.ContactMessage) (model.ContactMessage, error) {
	msg.ID = uuid.NewString()
	msg.Status = "new"
	msg.CreatedAt = time.Now().UTC()
	if err := p.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return model.ContactMessage{}, fmt.Errorf("saving contact message: %w", err)
	}
	return msg, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *Postgres) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
