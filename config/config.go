package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type (
	Config struct {
		Server   ServerConfig   `envPrefix:"HTTP_"`
		Database DatabaseConfig `envPrefix:"DATABASE_"`
		Auth     AuthConfig     `envPrefix:"AUTH_"`
		Storage  StorageConfig  `envPrefix:"SUPABASE_"`
		ImageKit ImageKitConfig `envPrefix:"IMAGEKIT_"`
		SMTP     SMTPConfig     `envPrefix:"SMTP_"`
	}

	ServerConfig struct {
		Port string `env:"PORT" envDefault:"8007"`
	}

	DatabaseConfig struct {
		URL string `env:"URL,required"`
	}

	AuthConfig struct {
		JWTSecret  string        `env:"JWT_SECRET,required"`
		TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
		CodeTTL    time.Duration `env:"CODE_TTL" envDefault:"10m"`
		CookieName string        `env:"COOKIE_NAME" envDefault:"Bearer"`
	}

	// StorageConfig points at a Supabase Storage bucket through its
	// S3-compatible endpoint. PublicURL is the project URL used to build
	// publicly fetchable object links.
	StorageConfig struct {
		PublicURL  string `env:"URL"`
		S3Endpoint string `env:"S3_ENDPOINT"`
		Region     string `env:"S3_REGION" envDefault:"us-east-1"`
		AccessKey  string `env:"S3_ACCESS_KEY"`
		SecretKey  string `env:"S3_SECRET_KEY"`
		Bucket     string `env:"BUCKET" envDefault:"photos"`
	}

	ImageKitConfig struct {
		PublicKey   string `env:"PUBLIC_KEY"`
		PrivateKey  string `env:"PRIVATE_KEY"`
		URLEndpoint string `env:"URL_ENDPOINT"`
	}

	SMTPConfig struct {
		Host     string `env:"HOST"`
		Port     string `env:"PORT" envDefault:"587"`
		User     string `env:"USER"`
		Password string `env:"PASSWORD"`
	}
)

func Read() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}
	return cfg, nil
}

// Configured reports whether all three ImageKit credentials are present and
// none of them is a placeholder left over from an env template.
func (ik ImageKitConfig) Configured() bool {
	for _, v := range []string{ik.PublicKey, ik.PrivateKey, ik.URLEndpoint} {
		if v == "" || strings.HasPrefix(v, "your_") {
			return false
		}
	}
	return true
}
