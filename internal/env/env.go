package env

import (
	"os"
)

const (
	AWSRegion        = "AWS_REGION"
	AWSID            = "AWS_ID"
	AWSSecret        = "AWS_SECRET"
	AWSToken         = "AWS_TOKEN"
	DynamoDBEndpoint = "DYNAMODB_ENDPOINT"
	UserSecretKey    = "USER_SECRET"
	AdminAPIKeyHash  = "ADMIN_API_KEY_HASH"
	ChatRedisURL     = "CHAT_REDIS_URL"
	ChatRedisPass    = "CHAT_REDIS_PASS"
	WebUrl           = "WEB_URL"
)

// Validate panics if a required variable is missing. Each server entrypoint
// calls it once on startup; importing this package never panics on its own.
func Validate(keys ...string) {
	required := []string{
		AWSRegion,
		AWSID,
		AWSSecret,
		WebUrl,
	}
	required = append(required, keys...)
	for _, key := range required {
		if os.Getenv(key) == "" {
			panic("env: required environment variable not set: " + key)
		}
	}
}

func Get(key string) string {
	return os.Getenv(key)
}
