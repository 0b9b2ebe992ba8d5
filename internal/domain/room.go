package domain

// RoomID is an opaque, client-chosen room name. The empty value means "no room".
type RoomID string
