package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/database"
	"github.com/gurukul/gurukul-backend/middleware"
	"github.com/gurukul/gurukul-backend/models"
	"gorm.io/gorm"
)

// db scopes the shared connection to the request's context.
func db(c *fiber.Ctx) *gorm.DB {
	return database.DB.WithContext(c.UserContext())
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// actingAs reports whether the caller is id, or an admin acting for anyone.
func actingAs(c *fiber.Ctx, id uuid.UUID) bool {
	who, ok := middleware.CurrentUser(c)
	if !ok {
		return false
	}
	return who.Role == models.RoleAdmin || who.ID == id
}

func isAdmin(c *fiber.Ctx) bool {
	who, ok := middleware.CurrentUser(c)
	return ok && who.Role == models.RoleAdmin
}

// logFailure records the internal cause of a 500 without leaking it to the client.
func logFailure(c *fiber.Ctx, err error) {
	log.Printf("🔥 %s %s: %v", c.Method(), c.Path(), err)
}

// formList reads a multi-valued form field. It accepts repeated keys, "key[]",
// a JSON array, or a single comma separated value.
func formList(c *fiber.Ctx, key string) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	values := append([]string{}, form.Value[key]...)
	values = append(values, form.Value[key+"[]"]...)
	if len(values) != 1 {
		return values
	}

	single := strings.TrimSpace(values[0])
	if strings.HasPrefix(single, "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(single), &decoded); err == nil {
			return decoded
		}
	}
	var out []string
	for _, part := range strings.Split(single, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// formJSON decodes a form field holding JSON into dst. Missing fields are left alone.
func formJSON(c *fiber.Ctx, key string, dst json.Unmarshaler) error {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return nil
	}
	if !strings.HasPrefix(raw, "[") && !strings.HasPrefix(raw, "{") {
		quoted, _ := json.Marshal(raw)
		return dst.UnmarshalJSON(quoted)
	}
	return dst.UnmarshalJSON([]byte(raw))
}
