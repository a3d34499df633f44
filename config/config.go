// config/config.go
package config

import (
	"log"
	"os"
	"time"
)

var (
	Port          string
	MongoURI      string
	DBName        string
	JWTKey        []byte
	JWTExpiration time.Duration

	// AllowOffline lets the server fall back to the in-memory store when
	// Mongo is unreachable at startup.
	AllowOffline bool

	// Google Calendar sync is optional; empty credentials disable it.
	GoogleCredentialsFile string
	GoogleCalendarID      string
)

func LoadConfig() {
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017"
	}

	DBName = os.Getenv("DB_NAME")
	if DBName == "" {
		DBName = "camops"
	}

	JWTKey = []byte(os.Getenv("JWT_SECRET"))
	if len(JWTKey) == 0 {
		JWTKey = []byte("secret")
	}

	expireStr := os.Getenv("JWT_EXPIRE")
	dur := 24 * time.Hour
	if expireStr != "" {
		if expireStr == "7d" {
			dur = 7 * 24 * time.Hour
		} else {
			var err error
			dur, err = time.ParseDuration(expireStr)
			if err != nil {
				log.Printf("Invalid JWT_EXPIRE: %s, using 24h", expireStr)
				dur = 24 * time.Hour
			}
		}
	}
	JWTExpiration = dur

	AllowOffline = os.Getenv("ALLOW_OFFLINE") == "true" || os.Getenv("ALLOW_OFFLINE") == "1"

	GoogleCredentialsFile = os.Getenv("GOOGLE_CREDENTIALS_FILE")
	GoogleCalendarID = os.Getenv("GOOGLE_CALENDAR_ID")
	if GoogleCalendarID == "" {
		GoogleCalendarID = "primary"
	}
}
