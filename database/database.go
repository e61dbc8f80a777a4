package database

import (
	"log"

	"github.com/google/uuid"
	config "github.com/gurukul/gurukul-backend/configs"
	"github.com/gurukul/gurukul-backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// GormConfig is shared by the server and the test databases.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	}
}

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	log.Println("✅ Database connected successfully")
}

func Migrate() {
	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	log.Println("✅ Database migration successful")
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// SeedTreasury makes sure the platform account that funds tutor payouts exists
// and returns its id. A configured TREASURY_ACCOUNT_ID wins over the seeded admin.
func SeedTreasury() uuid.UUID {
	if raw := config.TreasuryAccountID(); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Fatalf("🔥 TREASURY_ACCOUNT_ID is not a valid id: %v", err)
		}
		return id
	}

	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️ No treasury account configured and ADMIN_EMAIL/ADMIN_PASSWORD unset; payouts are disabled.")
		return uuid.Nil
	}

	var admin models.Guru
	err := DB.Where("email = ? AND role = ?", adminEmail, models.RoleAdmin).First(&admin).Error
	if err == nil {
		log.Println("Treasury account already exists.")
		return admin.ID
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("🔥 Failed to check for treasury account: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
	}

	admin = models.Guru{
		Username: "admin",
		Email:    adminEmail,
		Password: string(hashedPassword),
		Phone:    config.Config("ADMIN_PHONE"),
		Role:     models.RoleAdmin,
		Verified: true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Fatalf("🔥 Failed to seed treasury account: %v", err)
	}

	log.Println("✅ Treasury account seeded successfully")
	return admin.ID
}
