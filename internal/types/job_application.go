package types

var ApplicationStatuses = []string{"Applied", "Interview", "Offer", "Rejected", "Withdrawn"}

var JobTypes = []string{"Internship", "Full-Time", "Part-Time", "Contract", "Freelance"}

var InterviewTypes = []string{"Phone", "Video", "In-Person", "Technical", "HR", "Final"}

type InterviewDate struct {
	Date  string `json:"date,omitempty"`
	Type  string `json:"type,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type Salary struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
}
