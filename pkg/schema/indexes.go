package schema

// Index is one named secondary index
type Index struct {
	Name string
	SQL  string
}

// Indexes are created by the index phase. Every statement is guarded so the
// phase can be rerun.
var Indexes = []Index{
	{"idx_careers_category", `CREATE INDEX IF NOT EXISTS idx_careers_category ON careers (category)`},
	{"idx_careers_education_level", `CREATE INDEX IF NOT EXISTS idx_careers_education_level ON careers (education_level)`},
	{"idx_careers_active", `CREATE INDEX IF NOT EXISTS idx_careers_active ON careers (active)`},
	{"idx_colleges_location", `CREATE INDEX IF NOT EXISTS idx_colleges_location ON colleges (location)`},
	{"idx_colleges_type", `CREATE INDEX IF NOT EXISTS idx_colleges_type ON colleges (college_type)`},
	{"idx_colleges_ranking", `CREATE INDEX IF NOT EXISTS idx_colleges_ranking ON colleges (ranking)`},
	{"idx_quiz_questions_order", `CREATE INDEX IF NOT EXISTS idx_quiz_questions_order ON quiz_questions (order_index) WHERE active`},
	{"idx_testimonials_featured", `CREATE INDEX IF NOT EXISTS idx_testimonials_featured ON testimonials (featured) WHERE active`},
	{"idx_quiz_results_user", `CREATE INDEX IF NOT EXISTS idx_quiz_results_user ON quiz_results (user_id)`},
	{"idx_contact_messages_status", `CREATE INDEX IF NOT EXISTS idx_contact_messages_status ON contact_messages (status, created_at)`},
	{"idx_site_content_section", `CREATE INDEX IF NOT EXISTS idx_site_content_section ON site_content (section, language)`},

	// full-text search
	{"idx_careers_search", `CREATE INDEX IF NOT EXISTS idx_careers_search ON careers USING GIN (to_tsvector('english', coalesce(title, '') || ' ' || coalesce(description, '')))`},
	{"idx_colleges_search", `CREATE INDEX IF NOT EXISTS idx_colleges_search ON colleges USING GIN (to_tsvector('english', coalesce(name, '') || ' ' || coalesce(admission_process, '')))`},
	{"idx_site_content_search", `CREATE INDEX IF NOT EXISTS idx_site_content_search ON site_content USING GIN (to_tsvector('english', coalesce(title, '') || ' ' || coalesce(description, '') || ' ' || coalesce(content, '')))`},
}
