package schema

// ChatFriendMessageTable represents the 'chat.friendmessage' table
type ChatFriendMessageTable struct {
	Table       string
	ID          string
	UserID      string
	FriendID    string
	Content     string
	MessageType string
	Time        string
}

// ChatFriendMessage is the schema definition for chat.friendmessage
var ChatFriendMessage = ChatFriendMessageTable{
	Table:       "chat.friendmessage",
	ID:          "id",
	UserID:      "userid",
	FriendID:    "friendid",
	Content:     "content",
	MessageType: "messagetype",
	Time:        "time",
}
