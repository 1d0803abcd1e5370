package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// parseEnv overlays settings from environment variables. The variable names
// are the ones used by the deployment manifests and .env files.
//
//	HTTP_ADDR, GRPC_ADDR, DATABASE_URL, JWT_SECRET, JWT_ALG,
//	ACCESS_TOKEN_EXPIRES_MIN, REFRESH_TOKEN_EXPIRES_DAYS, BCRYPT_COST,
//	CORS_ORIGINS (comma separated), LOG_LEVEL,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//
// Empty values are ignored. A malformed integer panics, like a malformed
// config file does.
func parseEnv(config *Config) {
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_URL")
	envString(&config.JWTSecret, "JWT_SECRET")
	envString(&config.JWTAlgorithm, "JWT_ALG")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")

	if v, ok := envInt("ACCESS_TOKEN_EXPIRES_MIN"); ok {
		config.AccessTokenTTL = time.Duration(v) * time.Minute
	}
	if v, ok := envInt("REFRESH_TOKEN_EXPIRES_DAYS"); ok {
		config.RefreshTokenTTL = time.Duration(v) * 24 * time.Hour
	}
	if v, ok := envInt("BCRYPT_COST"); ok {
		config.BcryptCost = v
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok && v != "" {
		config.CORSOrigins = splitList(v)
	}
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func envInt(name string) (int, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		panic(fmt.Errorf("invalid integer for %s: %q", name, raw))
	}
	return v, true
}
