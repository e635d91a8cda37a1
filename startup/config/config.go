package config

import "os"

type Config struct {
	Port          string
	ListingDBHost string
	ListingDBPort string
	CacheHost     string
	CachePort     string
	JaegerAddress string
	SMTPHost      string
	SMTPPort      string
	SMTPEmail     string
	SMTPPassword  string
}

func NewConfig() *Config {
	return &Config{
		Port:          os.Getenv("LISTING_SERVICE_PORT"),
		ListingDBHost: os.Getenv("LISTING_DB_HOST"),
		ListingDBPort: os.Getenv("LISTING_DB_PORT"),
		CacheHost:     os.Getenv("LISTING_CACHE_HOST"),
		CachePort:     os.Getenv("LISTING_CACHE_PORT"),
		JaegerAddress: os.Getenv("JAEGER_ADDRESS"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPEmail:     os.Getenv("SMTP_AUTH_MAIL"),
		SMTPPassword:  os.Getenv("SMTP_AUTH_PASSWORD"),
	}
}
