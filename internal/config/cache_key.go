package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// NotificationChannel returns the Redis PubSub channel carrying back-office
// UI notifications for one authenticated user.
func (r *CacheKeyStruct) NotificationChannel(userID string) string {
	return fmt.Sprintf("backoffice:%s:notifications", userID)
}

var CacheKey = NewCacheKeyStruct()
