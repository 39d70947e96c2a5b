package cache

import "fmt"

func RateLimitKey(client string) string {
	return fmt.Sprintf("askbetter:ratelimit:%s", client)
}
