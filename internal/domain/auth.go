package domain

// SubjectType differentiates end-user tokens from admin tokens.
type SubjectType string

const (
	SubjectTypeUser  SubjectType = "USER"
	SubjectTypeAdmin SubjectType = "ADMIN"
)

// Subject is the verified identity behind a request.
type Subject struct {
	Type  SubjectType
	ID    string
	Email string
	Name  string
}

// IsAdmin reports whether the subject authenticated through the admin login.
func (s Subject) IsAdmin() bool {
	return s.Type == SubjectTypeAdmin
}
