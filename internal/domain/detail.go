package domain

import "strings"

// DefaultCommentAuthor is the author recorded when no user is signed in.
const DefaultCommentAuthor = "Team Member"

// Attachment is a file stored by the API for a task.
type Attachment struct {
	UploadedAt *Timestamp `json:"uploaded_at,omitempty" yaml:"uploaded_at,omitempty"`
	Filename   string     `json:"filename" yaml:"filename"`
	ID         int        `json:"id" yaml:"id"`
}

// Comment is a note attached to a task.
type Comment struct {
	CreatedAt *Timestamp `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Author    string     `json:"author" yaml:"author"`
	Text      string     `json:"text" yaml:"text"`
	ID        int        `json:"id" yaml:"id"`
}

// NewCommentBody is the JSON body of POST /tasks/{id}/comments.
type NewCommentBody struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Initials returns up to two upper-case initials of the author, or "TM".
func (c Comment) Initials() string {
	return Initials(c.Author)
}

// Initials returns the first letter of the first two words of name, upper-cased.
// An empty name yields "TM".
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteString(strings.ToUpper(string(r[0])))
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "TM"
	}
	return b.String()
}

// TaskDetail bundles a task with its attachments and comments.
type TaskDetail struct {
	Task        *Task
	Attachments []Attachment
	Comments    []Comment
}
