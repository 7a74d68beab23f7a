package jwt

import (
	"chat-dashboard-backend/internal/env"
)

var USER_SECRET string

const (
	RoleUser Role = iota
)

var RoleSecrets = map[Role]string{}

func init() {
	USER_SECRET = env.Get("USER_SECRET")
	RoleSecrets[RoleUser] = USER_SECRET
}
