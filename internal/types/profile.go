package types

type PersonalInfo struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

type Education struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	Field        string   `json:"field,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current"`
	GPA          string   `json:"gpa,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

type WorkExperience struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"startDate,omitempty"`
	EndDate          string   `json:"endDate,omitempty"`
	Current          bool     `json:"current"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Achievements     []string `json:"achievements,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	GitHub       string   `json:"github,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
}

type TechnicalSkill struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`    // Frontend, Backend, Mobile, Database, DevOps, Testing, Design, Other
	Proficiency string `json:"proficiency,omitempty"` // Beginner, Intermediate, Advanced, Expert
}

type SoftSkill struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

type Skills struct {
	Technical []TechnicalSkill `json:"technical"`
	Soft      []SoftSkill      `json:"soft"`
}

type Certification struct {
	Name           string `json:"name"`
	Issuer         string `json:"issuer,omitempty"`
	Date           string `json:"date,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	URL            string `json:"url,omitempty"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"` // Native, Fluent, Professional, Limited
}

// ProfileSections is the full set of nested profile data, and doubles as the
// shape of a CV's immutable snapshot.
type ProfileSections struct {
	PersonalInfo   PersonalInfo     `json:"personalInfo"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Projects       []Project        `json:"projects"`
	Skills         Skills           `json:"skills"`
	Certifications []Certification  `json:"certifications"`
	Languages      []Language       `json:"languages"`
}
