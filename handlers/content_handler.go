package handlers

import (
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/storage"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func contentUploadFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, storage.ErrUnsupportedType) {
		return utils.SendContent(c, fiber.StatusBadRequest, storage.KindContent.RejectionMessage(), nil)
	}
	logFailure(c, err)
	return utils.SendContent(c, fiber.StatusInternalServerError, "Error uploading file.", nil)
}

// contentFile returns the uploaded "contentFile", or "file" from older clients.
func contentFile(c *fiber.Ctx) (*multipart.FileHeader, error) {
	if file, err := c.FormFile("contentFile"); err == nil {
		return file, nil
	}
	return c.FormFile("file")
}

func contentFieldsTooLong(title, description string) string {
	switch {
	case utf8.RuneCountInString(title) > 100:
		return "Title cannot exceed 100 characters."
	case utf8.RuneCountInString(description) > 500:
		return "Description cannot exceed 500 characters."
	}
	return ""
}

// CreateContent stores an uploaded file and the record describing it.
func CreateContent(store storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawGuru := strings.TrimSpace(c.FormValue("guru"))
		title := strings.TrimSpace(c.FormValue("title"))
		file, fileErr := contentFile(c)
		if rawGuru == "" || title == "" || fileErr != nil {
			return utils.SendContent(c, fiber.StatusBadRequest, "Guru, title, and file are required.", nil)
		}
		if msg := contentFieldsTooLong(title, c.FormValue("description")); msg != "" {
			return utils.SendContent(c, fiber.StatusBadRequest, msg, nil)
		}
		guruID, err := uuid.Parse(rawGuru)
		if err != nil {
			return utils.SendContent(c, fiber.StatusBadRequest, "Invalid guru id.", nil)
		}
		if !actingAs(c, guruID) {
			return utils.SendContent(c, fiber.StatusForbidden, "You can only upload content as yourself.", nil)
		}

		location, err := store.Save(c.UserContext(), storage.KindContent, file)
		if err != nil {
			return contentUploadFailed(c, err)
		}

		content := models.Content{
			GuruID:      guruID,
			Title:       title,
			Description: c.FormValue("description"),
			File:        location,
			Size:        storage.SizeKB(file.Size),
		}
		if err := db(c).Create(&content).Error; err != nil {
			discard(c, store, &location)
			logFailure(c, err)
			return utils.SendContent(c, fiber.StatusInternalServerError, "Error creating content.", nil)
		}
		return utils.SendContent(c, fiber.StatusCreated, "Content created successfully.", content)
	}
}

func GetContentByGuru(c *fiber.Ctx) error {
	guruID, ok := paramID(c, "guruId")
	if !ok {
		return utils.SendContent(c, fiber.StatusNotFound, "No content found for this guru.", nil)
	}
	var contents []models.Content
	if err := db(c).Where("guru_id = ?", guruID).Order("created_at desc").Find(&contents).Error; err != nil {
		logFailure(c, err)
		return utils.SendContent(c, fiber.StatusInternalServerError, "Error fetching content.", nil)
	}
	if len(contents) == 0 {
		return utils.SendContent(c, fiber.StatusNotFound, "No content found for this guru.", nil)
	}
	return utils.SendContent(c, fiber.StatusOK, "", contents)
}

func findContent(c *fiber.Ctx) (*models.Content, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var content models.Content
	if err := db(c).First(&content, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func GetContent(c *fiber.Ctx) error {
	content, err := findContent(c)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SendContent(c, fiber.StatusNotFound, "Content not found.", nil)
	}
	if err != nil {
		logFailure(c, err)
		return utils.SendContent(c, fiber.StatusInternalServerError, "Error fetching content.", nil)
	}
	return utils.SendContent(c, fiber.StatusOK, "", content)
}

// UpdateContent changes the title and description, and replaces the file when one is sent.
func UpdateContent(store storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, err := findContent(c)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendContent(c, fiber.StatusNotFound, "Content not found.", nil)
		}
		if err != nil {
			logFailure(c, err)
			return utils.SendContent(c, fiber.StatusInternalServerError, "Error updating content.", nil)
		}
		if !actingAs(c, content.GuruID) {
			return utils.SendContent(c, fiber.StatusForbidden, "You can only change your own content.", nil)
		}

		if msg := contentFieldsTooLong(c.FormValue("title"), c.FormValue("description")); msg != "" {
			return utils.SendContent(c, fiber.StatusBadRequest, msg, nil)
		}

		columns := []string{"updated_at"}
		if title := strings.TrimSpace(c.FormValue("title")); title != "" {
			content.Title = title
			columns = append(columns, "title")
		}
		if description := c.FormValue("description"); description != "" {
			content.Description = description
			columns = append(columns, "description")
		}

		previous := content.File
		var replaced *string
		if file, err := contentFile(c); err == nil {
			location, err := store.Save(c.UserContext(), storage.KindContent, file)
			if err != nil {
				return contentUploadFailed(c, err)
			}
			replaced = &location
			content.File = location
			content.Size = storage.SizeKB(file.Size)
			columns = append(columns, "file", "size")
		}

		if err := db(c).Model(content).Select(columns).Updates(content).Error; err != nil {
			discard(c, store, replaced)
			logFailure(c, err)
			return utils.SendContent(c, fiber.StatusInternalServerError, "Error updating content.", nil)
		}
		if replaced != nil {
			discard(c, store, &previous)
		}
		return utils.SendContent(c, fiber.StatusOK, "Content updated successfully.", content)
	}
}

func DeleteContent(store storage.FileStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, err := findContent(c)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendContent(c, fiber.StatusNotFound, "Content not found.", nil)
		}
		if err != nil {
			logFailure(c, err)
			return utils.SendContent(c, fiber.StatusInternalServerError, "Error deleting content.", nil)
		}
		if !actingAs(c, content.GuruID) {
			return utils.SendContent(c, fiber.StatusForbidden, "You can only change your own content.", nil)
		}

		if err := db(c).Delete(content).Error; err != nil {
			logFailure(c, err)
			return utils.SendContent(c, fiber.StatusInternalServerError, "Error deleting content.", nil)
		}
		discard(c, store, &content.File)
		return utils.SendContent(c, fiber.StatusOK, "Content deleted successfully.", nil)
	}
}
