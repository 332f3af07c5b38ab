package types

// PersonalInfo holds the contact details parsed from a resume header.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Experience represents a single work history entry.
type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	IsCurrent    bool     `json:"is_current"`
	Bullets      []string `json:"bullets"`
	Technologies []string `json:"technologies,omitempty"`
}

// Education represents a single education entry.
type Education struct {
	Degree             string   `json:"degree"`
	School             string   `json:"school"`
	Location           string   `json:"location,omitempty"`
	GraduationYear     string   `json:"graduation_year,omitempty"`
	GPA                string   `json:"gpa,omitempty"`
	RelevantCoursework []string `json:"relevant_coursework,omitempty"`
}

// Project represents a personal or professional project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
}

// ResumeContent is the structured representation of a parsed resume.
type ResumeContent struct {
	PersonalInfo       PersonalInfo              `json:"personal_info"`
	Summary            string                    `json:"summary,omitempty"`
	Experience         []Experience              `json:"experience"`
	Education          []Education               `json:"education"`
	Skills             []string                  `json:"skills"`
	Projects           []Project                 `json:"projects,omitempty"`
	Certifications     []string                  `json:"certifications,omitempty"`
	Languages          []string                  `json:"languages,omitempty"`
	AdditionalSections map[string]SectionContent `json:"additional_sections,omitempty"`
}

// JobAnalysis is the structured breakdown of a job description.
type JobAnalysis struct {
	RequiredSkills      []string `json:"required_skills"`
	PreferredSkills     []string `json:"preferred_skills,omitempty"`
	Qualifications      []string `json:"qualifications"`
	KeyResponsibilities []string `json:"key_responsibilities"`
	CultureKeywords     []string `json:"company_culture_keywords"`
	ExperienceLevel     string   `json:"experience_level"`
	Industry            string   `json:"industry"`
}

// SuggestionType classifies how a suggestion changes the resume.
type SuggestionType string

const (
	SuggestionEnhancement SuggestionType = "enhancement"
	SuggestionAddition    SuggestionType = "addition"
	SuggestionRemoval     SuggestionType = "removal"
	SuggestionReorder     SuggestionType = "reorder"
)

// Valid reports whether t is one of the known suggestion types.
func (t SuggestionType) Valid() bool {
	switch t {
	case SuggestionEnhancement, SuggestionAddition, SuggestionRemoval, SuggestionReorder:
		return true
	}
	return false
}

// AISuggestion is a single proposed improvement to a resume section.
type AISuggestion struct {
	Section          string         `json:"section"`
	SubsectionIndex  *int           `json:"subsection_index,omitempty"`
	ItemIndex        *int           `json:"item_index,omitempty"`
	OriginalContent  string         `json:"original_content"`
	SuggestedContent string         `json:"suggested_content"`
	Explanation      string         `json:"explanation"`
	RelevanceScore   int            `json:"relevance_score"`
	SuggestionType   SuggestionType `json:"suggestion_type"`
	IsAccepted       bool           `json:"is_accepted"`
}

// MatchAnalysis is the full result of matching a resume against a job.
type MatchAnalysis struct {
	ResumeID           string         `json:"resume_id,omitempty"`
	JobDescriptionID   string         `json:"job_description_id,omitempty"`
	OverallScore       int            `json:"overall_score"`
	SkillScore         float64        `json:"skill_score"`
	ExperienceScore    float64        `json:"experience_score"`
	KeywordMatches     []string       `json:"keyword_matches"`
	MissingKeywords    []string       `json:"missing_keywords"`
	Suggestions        []AISuggestion `json:"suggestions"`
	ATSComplianceScore int            `json:"ats_compliance_score"`
}

// ATSFactor scores one aspect of ATS compatibility.
type ATSFactor struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// ATSReport is the result of an ATS compliance check.
type ATSReport struct {
	OverallScore    int                  `json:"overall_score"`
	Factors         map[string]ATSFactor `json:"factors"`
	Recommendations []string             `json:"recommendations"`
	CriticalIssues  []string             `json:"critical_issues"`
}

// BulletEnhancement is the model response for a single experience bullet.
type BulletEnhancement struct {
	EnhancedBullet         string `json:"enhanced_bullet"`
	ImprovementExplanation string `json:"improvement_explanation"`
	RelevanceScore         int    `json:"relevance_score"`
}
