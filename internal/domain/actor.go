package domain

// Role роль пользователя, переданная сервисом идентификации
type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// Actor аутентифицированный пользователь запроса
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true for administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
