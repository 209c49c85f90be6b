package config

import "os"

type Config struct {
	Port          string
	DBHost        string
	DBPort        string
	CacheHost     string
	CachePort     string
	JaegerAddress string
	MailHost      string
	MailPort      string
	MailAddress   string
	MailPassword  string
	AllowedOrigin string
	UploadDir     string
}

func NewConfig() *Config {
	return &Config{
		Port:          os.Getenv("COABI_SERVICE_PORT"),
		DBHost:        os.Getenv("COABI_DB_HOST"),
		DBPort:        os.Getenv("COABI_DB_PORT"),
		CacheHost:     os.Getenv("COABI_CACHE_HOST"),
		CachePort:     os.Getenv("COABI_CACHE_PORT"),
		JaegerAddress: os.Getenv("JAEGER_ADDRESS"),
		MailHost:      os.Getenv("MAIL_HOST"),
		MailPort:      os.Getenv("MAIL_PORT"),
		MailAddress:   os.Getenv("MAIL_ADDRESS"),
		MailPassword:  os.Getenv("MAIL_PASSWORD"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
	}
}
