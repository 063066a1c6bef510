package models

type User struct {
	ID       int64
	Login    string
	Password string
}
