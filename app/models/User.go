package models

// User is the local identity of this peer, created once and reused.
type User struct {
	Id    string `json:"id"`
	Token string `json:"token"`
}
