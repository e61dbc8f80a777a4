package config

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	conf     *viper.Viper
	loadOnce sync.Once
)

func load() {
	conf = viper.New()

	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("PORT", "5000")
	conf.SetDefault("JWT_EXPIRY", 3*time.Hour)
	conf.SetDefault("UPLOADS_DIR", "uploads")
	conf.SetDefault("STORAGE_DRIVER", "disk")
	conf.SetDefault("ALLOWED_ORIGINS", "http://localhost:8081,https://guruqool.vercel.app")
	conf.SetDefault("RAZORPAY_API_BASE_URL", "https://api.razorpay.com")
	conf.SetDefault("PAYMENT_CURRENCY", "INR")
	conf.SetDefault("RATING_STRATEGY", "running")
	conf.SetDefault("SMTP_PORT", 587)
	conf.SetDefault("SETTLEMENT_REMINDER_SCHEDULE", "0 * * * *")
	conf.SetDefault("UNSETTLED_AFTER", 7*24*time.Hour)

	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Could not read .env file: %v", err)
	}
	conf.AutomaticEnv()
}

func v() *viper.Viper {
	loadOnce.Do(load)
	return conf
}

// Config returns the string value for key, falling back to the built-in default.
func Config(key string) string {
	return v().GetString(key)
}

func Duration(key string) time.Duration {
	return v().GetDuration(key)
}

func Int(key string) int {
	return v().GetInt(key)
}

func Bool(key string) bool {
	return v().GetBool(key)
}

// StringSlice splits a comma separated value and drops empty entries.
func StringSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(Config(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TreasuryAccountID prefers TREASURY_ACCOUNT_ID and accepts the legacy ADMIN_ID.
func TreasuryAccountID() string {
	if id := Config("TREASURY_ACCOUNT_ID"); id != "" {
		return id
	}
	return Config("ADMIN_ID")
}

// Set overrides a key for the lifetime of the process. Used by tests and the seeding step.
func Set(key string, value interface{}) {
	v().Set(key, value)
}
