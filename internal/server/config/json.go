package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
	"github.com/dmitrijs2005/budgetkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Duration fields
// use timex.Duration, so both "15m" and integer nanoseconds are accepted.
// Only non-zero values override what is already in Config.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn"`
	JWTSecret        string         `json:"jwt_secret"`
	JWTAlgorithm     string         `json:"jwt_alg"`
	AccessTokenTTL   timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL  timex.Duration `json:"refresh_token_ttl"`
	BcryptCost       int            `json:"bcrypt_cost"`
	CORSOrigins      []string       `json:"cors_origins"`
	LogLevel         string         `json:"log_level"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the file named by the -c or
// -config flag. Without the flag nothing is loaded. An unreadable file or
// invalid JSON panics: the server must not start on a half-read config.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.JWTSecret, c.JWTSecret)
	setString(&config.JWTAlgorithm, c.JWTAlgorithm)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenTTL.Duration > 0 {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL.Duration > 0 {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
