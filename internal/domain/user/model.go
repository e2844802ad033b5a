package user

import (
	"strconv"
	"strings"
)

// User is the identity tips belong to. Accounts are managed outside this
// service; the pipeline only reads them.
type User struct {
	ID    int64
	Name  string
	Email string
}

// DisplayName falls back from name to email to the numeric id.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	return strconv.FormatInt(u.ID, 10)
}
