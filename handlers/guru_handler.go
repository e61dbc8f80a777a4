package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/notifications"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/storage"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const guruTaken = "A guru with this username or email already exists"

// guruConflict reports whether username or email is used by a guru other than except.
func guruConflict(tx *gorm.DB, username, email string, except uuid.UUID) (bool, error) {
	if username != "" {
		taken, err := valueTaken(tx, &models.Guru{}, "username", strings.TrimSpace(username), except)
		if err != nil || taken {
			return taken, err
		}
	}
	if email != "" {
		return valueTaken(tx, &models.Guru{}, "email", strings.TrimSpace(email), except)
	}
	return false, nil
}

func loadGuru(c *fiber.Ctx) (*models.Guru, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, services.ErrGuruNotFound
	}
	var guru models.Guru
	err := db(c).First(&guru, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrGuruNotFound
	}
	return &guru, err
}

func CreateGuru(store storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := bindGuruSignup(c)
		if err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if msg := utils.ValidationMessage(req, guruSignupMessages); msg != "" {
			return utils.Fail(c, fiber.StatusBadRequest, msg)
		}

		taken, err := guruConflict(db(c), req.Username, req.Email, uuid.Nil)
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		if taken {
			return utils.Fail(c, fiber.StatusConflict, guruTaken)
		}

		hashed, err := services.HashPassword(req.Password)
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}

		image, err := saveUpload(c, store, storage.KindProfile, "profileImage")
		if err != nil {
			return uploadFailed(c, storage.KindProfile, err)
		}

		skills := req.Skills
		if skills == nil {
			skills = []string{}
		}
		languages := req.Languages
		if languages == nil {
			languages = []string{}
		}
		links := req.SocialLinks
		if links == nil {
			links = []models.SocialLink{}
		}

		guru := models.Guru{
			Username:       req.Username,
			Email:          req.Email,
			Password:       hashed,
			Phone:          req.Phone,
			Address:        req.Address.model(),
			ProfileImage:   image,
			AboutMe:        req.AboutMe,
			TeachingMode:   req.TeachingMode,
			Skills:         skills,
			Education:      req.Education.Resolve(req.InstitutionName, req.EducationStartDate, req.EducationEndDate),
			Experience:     req.Experience,
			Languages:      languages,
			SocialLinks:    links,
			AvailableTimes: req.AvailableTimes.Resolve(),
			Category:       req.Category,
			PerHourRate:    req.PerHourRate,
			Role:           models.RoleGuru,
		}
		if err := db(c).Create(&guru).Error; err != nil {
			discard(c, store, image)
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.Fail(c, fiber.StatusConflict, guruTaken)
			}
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}

		return utils.Send(c, fiber.StatusCreated, "Guru created successfully", guru)
	}
}

// GetGurus lists tutor accounts. category and online narrow the result.
func GetGurus(c *fiber.Ctx) error {
	q := db(c).Where("role = ?", models.RoleGuru)
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if online := c.Query("online"); online != "" {
		q = q.Where("is_online = ?", online == "true")
	}

	var gurus []models.Guru
	if err := q.Order("created_at asc").Find(&gurus).Error; err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "Gurus fetched successfully", gurus)
}

func GetGuru(c *fiber.Ctx) error {
	guru, err := loadGuru(c)
	if errors.Is(err, services.ErrGuruNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "Guru not found")
	}
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "Guru fetched successfully", guru)
}

// UpdateGuru changes profile fields. Role, earnings, rating and verification
// are managed elsewhere and cannot be set here.
func UpdateGuru(c *fiber.Ctx) error {
	var req GuruUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if msg := utils.ValidationMessage(req, guruUpdateMessages); msg != "" {
		return utils.Fail(c, fiber.StatusBadRequest, msg)
	}

	guru, err := loadGuru(c)
	if errors.Is(err, services.ErrGuruNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "Guru not found")
	}
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}

	var username, email string
	if req.Username != nil && *req.Username != guru.Username {
		username = *req.Username
	}
	if req.Email != nil && *req.Email != guru.Email {
		email = *req.Email
	}
	taken, err := guruConflict(db(c), username, email, guru.ID)
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	if taken {
		return utils.Fail(c, fiber.StatusConflict, guruTaken)
	}

	columns, err := applyGuruUpdate(guru, req)
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	if len(columns) > 0 {
		err := db(c).Model(guru).Select(append(columns, "updated_at")).Updates(guru).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Fail(c, fiber.StatusConflict, guruTaken)
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
	}
	return utils.Send(c, fiber.StatusOK, "Guru updated successfully", guru)
}

// applyGuruUpdate copies the set fields of req onto guru and returns the changed columns.
func applyGuruUpdate(guru *models.Guru, req GuruUpdateRequest) ([]string, error) {
	var columns []string
	if req.Username != nil {
		guru.Username = *req.Username
		columns = append(columns, "username")
	}
	if req.Email != nil {
		guru.Email = *req.Email
		columns = append(columns, "email")
	}
	if req.Password != nil {
		hashed, err := services.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		guru.Password = hashed
		columns = append(columns, "password")
	}
	if req.Phone != nil {
		guru.Phone = *req.Phone
		columns = append(columns, "phone")
	}
	if req.Address != nil {
		req.Address.apply(&guru.Address)
		columns = append(columns, "address_city", "address_state", "address_country", "address_zip_code")
	}
	if req.AboutMe != nil {
		guru.AboutMe = *req.AboutMe
		columns = append(columns, "about_me")
	}
	if req.TeachingMode != nil {
		guru.TeachingMode = *req.TeachingMode
		columns = append(columns, "teaching_mode")
	}
	if req.Skills != nil {
		guru.Skills = *req.Skills
		columns = append(columns, "skills")
	}
	if req.Education.Set {
		guru.Education = req.Education.Resolve(req.InstitutionName, req.EducationStartDate, req.EducationEndDate)
		columns = append(columns, "education")
	}
	if req.Experience != nil {
		guru.Experience = *req.Experience
		columns = append(columns, "experience")
	}
	if req.Languages != nil {
		guru.Languages = *req.Languages
		columns = append(columns, "languages")
	}
	if req.SocialLinks != nil {
		guru.SocialLinks = *req.SocialLinks
		columns = append(columns, "social_links")
	}
	if req.AvailableTimes.Set {
		guru.AvailableTimes = req.AvailableTimes.Resolve()
		columns = append(columns, "available_times")
	}
	if req.Category != nil {
		guru.Category = *req.Category
		columns = append(columns, "category")
	}
	if req.PerHourRate != nil {
		guru.PerHourRate = *req.PerHourRate
		columns = append(columns, "per_hour_rate")
	}
	return columns, nil
}

func UpdateGuruProfileImage(store storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guru, err := loadGuru(c)
		if errors.Is(err, services.ErrGuruNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Guru not found")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}

		image, err := saveUpload(c, store, storage.KindProfile, "profileImage")
		if err != nil {
			return uploadFailed(c, storage.KindProfile, err)
		}
		if image == nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Profile image is required")
		}

		previous := guru.ProfileImage
		if err := db(c).Model(guru).Update("profile_image", *image).Error; err != nil {
			discard(c, store, image)
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		guru.ProfileImage = image
		discardReplaced(c, store, previous, image)

		return utils.Send(c, fiber.StatusOK, "Profile image updated successfully", guru)
	}
}

func DeleteGuru(store storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guru, err := loadGuru(c)
		if errors.Is(err, services.ErrGuruNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Guru not found")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}

		err = db(c).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("guru_id = ?", guru.ID).Delete(&models.Enrollment{}).Error; err != nil {
				return errors.Wrap(err, "delete enrollments")
			}
			return errors.Wrap(tx.Delete(guru).Error, "delete guru")
		})
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		discard(c, store, guru.ProfileImage)

		return utils.Send(c, fiber.StatusOK, "Guru deleted successfully", guru)
	}
}

// SetGuruPresence marks the guru online or offline.
func SetGuruPresence(online bool) fiber.Handler {
	message := "Guru set to offline successfully"
	if online {
		message = "Guru set to online successfully"
	}
	return func(c *fiber.Ctx) error {
		guru, err := loadGuru(c)
		if errors.Is(err, services.ErrGuruNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Guru not found")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		if err := db(c).Model(guru).Update("is_online", online).Error; err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		guru.IsOnline = online
		return utils.Send(c, fiber.StatusOK, message, guru)
	}
}

func VerifyGuru(c *fiber.Ctx) error {
	guru, err := loadGuru(c)
	if errors.Is(err, services.ErrGuruNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "Guru not found")
	}
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	if err := db(c).Model(guru).Update("verified", true).Error; err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	guru.Verified = true
	return utils.Send(c, fiber.StatusOK, "Guru verified successfully", guru)
}

func GetGuruStats(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.Fail(c, fiber.StatusNotFound, "Guru not found")
	}
	stats, err := services.StatsForGuru(db(c), id)
	if errors.Is(err, services.ErrGuruNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "Guru not found")
	}
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "Stats fetched successfully", stats)
}

// TransferRequest pays out of the configured treasury. SenderID is optional.
type TransferRequest struct {
	SenderID      string          `json:"senderId"`
	ReceiverID    string          `json:"receiverId"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
}

// TransferPayment pays a tutor out of the treasury for one transaction.
// A senderId that names another account is rejected.
func TransferPayment(treasury *services.Treasury) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req TransferRequest
		const required = "Receiver ID, Transaction ID and a valid amount are required"
		if err := c.BodyParser(&req); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, required)
		}
		receiverID, errR := uuid.Parse(req.ReceiverID)
		txnID, errT := uuid.Parse(req.TransactionID)
		if errR != nil || errT != nil || !req.Amount.IsPositive() {
			return utils.Fail(c, fiber.StatusBadRequest, required)
		}
		if !treasury.Is(req.SenderID) {
			return utils.Fail(c, fiber.StatusNotFound, "Sender not found")
		}

		settlement, err := treasury.Transfer(db(c), receiverID, txnID, req.Amount)
		switch {
		case errors.Is(err, services.ErrTreasuryNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "Sender not found")
		case errors.Is(err, services.ErrReceiverNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "Receiver not found")
		case errors.Is(err, services.ErrTransactionNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "Transaction not found")
		case errors.Is(err, services.ErrInsufficientBalance):
			return utils.Fail(c, fiber.StatusBadRequest, "Insufficient balance")
		case errors.Is(err, services.ErrAlreadySettled):
			return utils.Fail(c, fiber.StatusConflict, "Transaction has already been paid to the teacher")
		case errors.Is(err, services.ErrSelfTransfer):
			return utils.Fail(c, fiber.StatusBadRequest, "Sender and receiver must be different accounts")
		case errors.Is(err, services.ErrInvalidAmount):
			return utils.Fail(c, fiber.StatusBadRequest, required)
		case err != nil:
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}

		subject, body := notifications.PayoutSent(req.Amount, settlement.Transaction.TransactionID)
		go notifications.SendEmail(settlement.Receiver.Username, settlement.Receiver.Email, subject, body)

		return utils.Send(c, fiber.StatusOK, "Payment processed successfully", fiber.Map{
			"sender":   settlement.Sender,
			"receiver": settlement.Receiver,
		})
	}
}

// FundRequest credits the configured treasury. AdminID is optional.
type FundRequest struct {
	AdminID string          `json:"adminId"`
	Amount  decimal.Decimal `json:"amount"`
}

// AddPayment credits the treasury with money collected from students.
func AddPayment(treasury *services.Treasury) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req FundRequest
		const required = "A valid amount is required"
		if err := c.BodyParser(&req); err != nil || !req.Amount.IsPositive() {
			return utils.Fail(c, fiber.StatusBadRequest, required)
		}
		if !treasury.Is(req.AdminID) {
			return utils.Fail(c, fiber.StatusNotFound, "Admin not found")
		}

		account, err := treasury.Fund(db(c), req.Amount)
		if errors.Is(err, services.ErrTreasuryNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Admin not found")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}
		return utils.Send(c, fiber.StatusOK, "Earnings added successfully", account)
	}
}
