package domain

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// Staff is a front desk or billing operator allowed to use the API.
type Staff struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Email        string   `json:"email" yaml:"email"`
	PasswordHash string   `json:"-" yaml:"password_hash"`
	Roles        []string `json:"roles" yaml:"roles"`
}

func (s *Staff) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}
