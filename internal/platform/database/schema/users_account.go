package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Password  string
	Role      string
	Avatar    string
	CreatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Password:  "passwordhash",
	Role:      "role",
	Avatar:    "avatar",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Password, t.Role, t.Avatar, t.CreatedAt}
}
