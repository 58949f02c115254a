package model

// DefaultRole is assigned to accounts created without a role.
const DefaultRole = "Listener"

// Column limits of the music_users table.
const (
	PhoneMaxLen = 15
	EmailMaxLen = 100
	RoleMaxLen  = 50
)

// UserAccount represents a row of music_users.
// At least one of Phone and Email is always set.
type UserAccount struct {
	ID    int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Phone *string `json:"phone" gorm:"size:15;check:chk_music_users_contact,phone IS NOT NULL OR email IS NOT NULL"`
	Email *string `json:"email" gorm:"size:100"`
	Role  string  `json:"role" gorm:"size:50;not null;default:'Listener'"`
}

// TableName 指定表名
func (UserAccount) TableName() string {
	return "music_users"
}

// UserInput is the payload for creating an account. Unknown JSON fields are ignored.
type UserInput struct {
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Role  string  `json:"role"`
}

// UserPatch holds the fields of a partial update; nil fields keep their stored value.
type UserPatch struct {
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// Columns returns the column/value pairs that the patch overwrites.
func (p UserPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Role != nil {
		cols["role"] = *p.Role
	}
	return cols
}
