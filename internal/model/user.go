package model

import "time"

type User struct {
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
}

// UserIn is the registration payload. It carries the plain password.
type UserIn struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email" validate:"email"`
	FullName *string `json:"full_name"`
}

// UserOut is what the API reveals about a user.
type UserOut struct {
	Username string  `json:"username"`
	Email    string  `json:"email" validate:"email"`
	FullName *string `json:"full_name"`
}

type UserInDB struct {
	Username       string  `json:"username"`
	HashedPassword string  `json:"hashed_password"`
	Email          string  `json:"email" validate:"email"`
	FullName       *string `json:"full_name"`
}

// Profile is a loosely typed user record used to demonstrate coercion:
// {"id":"123","signup_ts":"2017-06-01 12:22","friends":[1,"2"]} decodes
// into ID 123, the default name and friends [1 2].
type Profile struct {
	ID       int        `json:"id"`
	Name     string     `json:"name" default:"John Doe"`
	SignupTS *time.Time `json:"signup_ts"`
	Friends  []int      `json:"friends" default:"[]"`
}
