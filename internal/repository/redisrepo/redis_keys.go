package redisrepo

import "fmt"

const (
	VIBE_CHECK_KEY       = "vibe-check:%s"       // <vibeCheckID>
	USER_CACHE_KEY       = "user-cache:%s"       // <userID>
	USERNAME_KEY         = "username:%s"         // <username>
	USER_VIBE_CHECKS_KEY = "user:%s-vibe-checks" // <userID>
)

func VibeCheckKey(vibeCheckID string) string {
	return fmt.Sprintf(VIBE_CHECK_KEY, vibeCheckID)
}

func UserCacheKey(userID string) string {
	return fmt.Sprintf(USER_CACHE_KEY, userID)
}

func UsernameKey(username string) string {
	return fmt.Sprintf(USERNAME_KEY, username)
}

func UserVibeChecksKey(userID string) string {
	return fmt.Sprintf(USER_VIBE_CHECKS_KEY, userID)
}
