package schema

// ChatGroupMessageTable represents the 'chat.groupmessage' table
type ChatGroupMessageTable struct {
	Table       string
	ID          string
	GroupID     string
	UserID      string
	Content     string
	MessageType string
	Time        string
}

// ChatGroupMessage is the schema definition for chat.groupmessage
var ChatGroupMessage = ChatGroupMessageTable{
	Table:       "chat.groupmessage",
	ID:          "id",
	GroupID:     "groupid",
	UserID:      "userid",
	Content:     "content",
	MessageType: "messagetype",
	Time:        "time",
}

func (t ChatGroupMessageTable) Columns() []string {
	return []string{t.ID, t.GroupID, t.UserID, t.Content, t.MessageType, t.Time}
}
