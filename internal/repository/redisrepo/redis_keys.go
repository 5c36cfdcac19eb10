package redisrepo

import "fmt"

const (
	POST_COMMENTS_KEY = "post-comments:%d" // <postID>
	POST_LIKES_KEY    = "post-likes:%d"    // <postID>
	USER_KEY          = "user:%s"          // <keycloakUserID>
)

func PostCommentsKey(postID int64) string {
	return fmt.Sprintf(POST_COMMENTS_KEY, postID)
}

func PostLikesKey(postID int64) string {
	return fmt.Sprintf(POST_LIKES_KEY, postID)
}

func UserKey(keycloakUserID string) string {
	return fmt.Sprintf(USER_KEY, keycloakUserID)
}
