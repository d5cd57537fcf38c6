package schema

// ChatGroupMemberTable represents the 'chat.groupmember' table
type ChatGroupMemberTable struct {
	Table      string
	GroupID    string
	UserID     string
	CreateTime string
}

// ChatGroupMember is the schema definition for chat.groupmember
var ChatGroupMember = ChatGroupMemberTable{
	Table:      "chat.groupmember",
	GroupID:    "groupid",
	UserID:     "userid",
	CreateTime: "createtime",
}

func (t ChatGroupMemberTable) Columns() []string {
	return []string{t.GroupID, t.UserID, t.CreateTime}
}
