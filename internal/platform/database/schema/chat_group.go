package schema

// ChatGroupTable represents the 'chat.group' table
type ChatGroupTable struct {
	Table      string
	ID         string
	OwnerID    string
	Name       string
	Notice     string
	CreateTime string
}

// ChatGroup is the schema definition for chat.group
var ChatGroup = ChatGroupTable{
	Table:      `chat."group"`,
	ID:         "id",
	OwnerID:    "ownerid",
	Name:       "name",
	Notice:     "notice",
	CreateTime: "createtime",
}

// Columns returns all standard column names
func (t ChatGroupTable) Columns() []string {
	return []string{t.ID, t.OwnerID, t.Name, t.Notice, t.CreateTime}
}
