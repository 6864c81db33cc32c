package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(jwtSecret())

func jwtSecret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "agrosustain_dev_secret" // override via JWT_SECRET in production
}

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const UserKey ContextKey = "user"

var Ctx = context.Background()
