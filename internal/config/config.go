package config

import (
	"fmt"
	"net/http"
	"time"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

// URL builds a connection URL with the given scheme ("postgres" for pgx,
// "pgx5" for golang-migrate).
func (c DBConfig) URL(scheme string) string {
	return fmt.Sprintf("%s://%s:%s@%s:%s/%s?sslmode=%s",
		scheme, c.Username, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type KeycloakConfig struct {
	BaseURL       string
	Realm         string
	ClientID      string
	ClientSecret  string
	AdminUsername string
	AdminPassword string
}

type MinioConfig struct {
	Endpoint string
	// PublicEndpoint replaces Endpoint in presigned URLs so browsers outside
	// the compose network can reach them.
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	Bucket         string
}
