package utils

import "github.com/gofiber/fiber/v2"

// Send writes the standard {success, error, message, data} envelope.
func Send(c *fiber.Ctx, status int, message string, data interface{}) error {
	ok := status < fiber.StatusBadRequest
	errFlag := 0
	if !ok {
		errFlag = 1
	}
	return c.Status(status).JSON(fiber.Map{
		"success": ok,
		"error":   errFlag,
		"message": message,
		"data":    data,
	})
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return Send(c, status, message, nil)
}

// SendSession writes the {error, data, message} envelope used by the session routes.
// errValue is 0 on success, 1 on failure, or a short reason for not-found responses.
func SendSession(c *fiber.Ctx, status int, errValue interface{}, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   errValue,
		"data":    data,
		"message": message,
	})
}

// SendContent writes the {success, message, data} envelope used by the content routes.
func SendContent(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": status < fiber.StatusBadRequest}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// SendCode writes the standard envelope with a specific error code, for
// responses that clients tell apart by code rather than status.
func SendCode(c *fiber.Ctx, status, code int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": status < fiber.StatusBadRequest,
		"error":   code,
		"message": message,
		"data":    data,
	})
}
