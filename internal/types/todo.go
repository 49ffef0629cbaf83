package types

var TodoCategories = []string{"Skill Gap", "Learning Objective", "Application Follow-up", "General"}

var TodoPriorities = []string{"Low", "Medium", "High"}

var TodoStatuses = []string{"Todo", "In Progress", "Completed"}

var ResourceTypes = []string{"Link", "Course", "Book", "Video", "Article"}

type TodoResource struct {
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Notes string `json:"notes,omitempty"`
}
