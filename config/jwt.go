package config

import "time"

var JWTSecret []byte
var JWTExpiration = 24 * time.Hour

// SetJWTSecret is called from Load; tests set it directly.
func SetJWTSecret(secret string) {
	JWTSecret = []byte(secret)
}
