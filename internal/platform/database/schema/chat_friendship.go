package schema

// ChatFriendshipTable represents the 'chat.friendship' table
type ChatFriendshipTable struct {
	Table      string
	UserID     string
	FriendID   string
	CreateTime string
}

// ChatFriendship is the schema definition for chat.friendship
var ChatFriendship = ChatFriendshipTable{
	Table:      "chat.friendship",
	UserID:     "userid",
	FriendID:   "friendid",
	CreateTime: "createtime",
}
