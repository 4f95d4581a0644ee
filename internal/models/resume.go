package models

// CareerLevel is the candidate's seniority bracket as inferred by the
// resume extraction step.
type CareerLevel string

const (
	CareerIntern    CareerLevel = "Intern"
	CareerJunior    CareerLevel = "Junior"
	CareerMid       CareerLevel = "Mid-Level"
	CareerSenior    CareerLevel = "Senior"
	CareerLead      CareerLevel = "Lead"
	CareerPrincipal CareerLevel = "Principal"
	CareerExecutive CareerLevel = "Executive"
)

type RemotePreference string

const (
	RemoteOnsite   RemotePreference = "On-site"
	RemoteHybrid   RemotePreference = "Hybrid"
	RemoteRemote   RemotePreference = "Remote"
	RemoteFlexible RemotePreference = "Flexible"
)

type WorkExperience struct {
	CompanyName      string   `json:"company_name"`
	JobTitle         string   `json:"job_title"`
	Duration         string   `json:"duration"`
	Industry         string   `json:"industry,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

type Education struct {
	Level          string `json:"level"`
	FieldOfStudy   string `json:"field_of_study,omitempty"`
	Institution    string `json:"institution,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`
}

type Certification struct {
	Name                string `json:"name"`
	IssuingOrganization string `json:"issuing_organization,omitempty"`
	IssueDate           string `json:"issue_date,omitempty"`
}

// Resume is the structured candidate profile produced by the resume parser.
// Every field is optional; missing data is represented by zero values and
// never treated as an error downstream.
type Resume struct {
	Name               string           `json:"name,omitempty"`
	Email              string           `json:"email,omitempty"`
	TargetJobTitles    []string         `json:"target_job_titles,omitempty"`
	CurrentLocation    string           `json:"current_location,omitempty"`
	DesiredJobLocation string           `json:"desired_job_location,omitempty"`
	RemotePreference   RemotePreference `json:"remote_preference,omitempty"`
	CareerLevel        CareerLevel      `json:"career_level,omitempty"`
	YearsOfExperience  int              `json:"years_of_experience,omitempty"`
	WorkExperience     []WorkExperience `json:"work_experience,omitempty"`
	PastIndustries     []string         `json:"past_industries,omitempty"`
	Education          []Education      `json:"education,omitempty"`
	TechnicalSkills    []string         `json:"technical_skills,omitempty"`
	SoftSkills         []string         `json:"soft_skills,omitempty"`
	Languages          []string         `json:"languages,omitempty"`
	Certifications     []Certification  `json:"certifications,omitempty"`

	// RawText holds the full extracted PDF text. It is kept for the
	// duration of a run only and never serialized into results.
	RawText string `json:"-"`
}
