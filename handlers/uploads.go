package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/storage"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// saveUpload stores the multipart file under field. It returns a nil location
// when the request carries no such file.
func saveUpload(c *fiber.Ctx, store storage.FileStore, kind storage.Kind, field string) (*string, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	file, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	location, err := store.Save(c.UserContext(), kind, file)
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// uploadFailed writes the response for a failed saveUpload.
func uploadFailed(c *fiber.Ctx, kind storage.Kind, err error) error {
	if errors.Is(err, storage.ErrUnsupportedType) {
		return utils.Fail(c, fiber.StatusBadRequest, kind.RejectionMessage())
	}
	logFailure(c, err)
	return utils.Fail(c, fiber.StatusInternalServerError, "Failed to upload file")
}

// discard removes an upload that will not be referenced, logging instead of failing.
func discard(c *fiber.Ctx, store storage.FileStore, location *string) {
	if location == nil || *location == "" {
		return
	}
	if err := store.Remove(c.UserContext(), *location); err != nil {
		logFailure(c, errors.Wrapf(err, "remove %s", *location))
	}
}

// discardReplaced removes previous once current has replaced it on the record.
func discardReplaced(c *fiber.Ctx, store storage.FileStore, previous, current *string) {
	if previous != nil && current != nil && *previous == *current {
		return
	}
	discard(c, store, previous)
}

// valueTaken reports whether another row of model already uses value in column.
func valueTaken(tx *gorm.DB, model interface{}, column, value string, except uuid.UUID) (bool, error) {
	var count int64
	q := tx.Model(model).Where(column+" = ?", value)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check "+column)
	}
	return count > 0, nil
}
