package domain

import "time"

// Resume statuses. A resume flips to complete once it has at least
// CompleteSectionThreshold populated sections.
const (
	StatusDraft    = "draft"
	StatusComplete = "complete"

	CompleteSectionThreshold = 3

	// MaxTitleLength bounds the user-supplied resume title.
	MaxTitleLength = 100

	// DefaultTitle is used when a resume is created without a title.
	DefaultTitle = "Untitled Resume"
)

// Resume is a stored resume document. Every resume is owned by exactly one
// user; all queries are filtered by UserID so cross-user access is
// structurally impossible.
type Resume struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`

	Data ResumeData `json:"data"`

	// Status and Sections are derived from Data on every write.
	Status   string `json:"status"`
	Sections int    `json:"sections"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResumeData is the nested section document mirrored by the builder UI.
type ResumeData struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Skills       []Skill      `json:"skills"`
	Projects     []Project    `json:"projects"`
}

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
}

type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type Education struct {
	ID           string `json:"id"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	Field        string `json:"field"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	GPA          string `json:"gpa"`
	Achievements string `json:"achievements"`
}

type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
	GitHub       string `json:"github"`
}

// CountSections reports how many of the five sections hold content.
func (d ResumeData) CountSections() int {
	n := 0
	if d.PersonalInfo.FullName != "" {
		n++
	}
	if len(d.Experience) > 0 {
		n++
	}
	if len(d.Education) > 0 {
		n++
	}
	if len(d.Skills) > 0 {
		n++
	}
	if len(d.Projects) > 0 {
		n++
	}
	return n
}

// Derive recomputes the Sections count and Status from Data. Call on every
// create and update so the stored values never go stale.
func (r *Resume) Derive() {
	r.Sections = r.Data.CountSections()
	if r.Sections >= CompleteSectionThreshold {
		r.Status = StatusComplete
	} else {
		r.Status = StatusDraft
	}
}

// ResumeSummary is the list view of a resume: metadata without the full
// section document.
type ResumeSummary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Sections  int       `json:"sections"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary strips the section document from r.
func (r Resume) Summary() ResumeSummary {
	return ResumeSummary{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Status:    r.Status,
		Sections:  r.Sections,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Stats are the public aggregate counters served by /api/resumes/stats.
type Stats struct {
	Users           int64 `json:"users"`
	Resumes         int64 `json:"resumes"`
	CompleteResumes int64 `json:"completeResumes"`
}
