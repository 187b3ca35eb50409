package constants

const (
	CacheKeyLoginAttempts = "site:login:attempts:%s" // %s -> client ip
)
