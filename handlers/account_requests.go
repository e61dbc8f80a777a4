package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/shopspring/decimal"
)

type AddressRequest struct {
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Country string `json:"country" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
}

func (a AddressRequest) model() models.Address {
	return models.Address{City: a.City, State: a.State, Country: a.Country, ZipCode: a.ZipCode}
}

type AddressUpdate struct {
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
	ZipCode *string `json:"zipCode"`
}

func (a *AddressUpdate) apply(dst *models.Address) {
	if a == nil {
		return
	}
	if a.City != nil {
		dst.City = *a.City
	}
	if a.State != nil {
		dst.State = *a.State
	}
	if a.Country != nil {
		dst.Country = *a.Country
	}
	if a.ZipCode != nil {
		dst.ZipCode = *a.ZipCode
	}
}

const addressMessage = "Complete address (city, state, country, zipCode) is required."

// formValue returns the first non-empty form value among keys.
func formValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.FormValue(k)); v != "" {
			return v
		}
	}
	return ""
}

func formAddress(c *fiber.Ctx) AddressRequest {
	return AddressRequest{
		City:    formValue(c, "address.city", "address[city]", "city"),
		State:   formValue(c, "address.state", "address[state]", "state"),
		Country: formValue(c, "address.country", "address[country]", "country"),
		ZipCode: formValue(c, "address.zipCode", "address[zipCode]", "zipCode"),
	}
}

type GuruSignupRequest struct {
	Username           string              `json:"username" validate:"required,min=3"`
	Email              string              `json:"email" validate:"required,email"`
	Password           string              `json:"password" validate:"required,min=6"`
	Phone              string              `json:"phone" validate:"required,phone"`
	Address            AddressRequest      `json:"address"`
	AboutMe            string              `json:"aboutMe" validate:"max=500"`
	TeachingMode       string              `json:"teachingMode" validate:"omitempty,oneof=Online Offline Hybrid"`
	Skills             []string            `json:"skills"`
	Education          flexEducation       `json:"education"`
	InstitutionName    string              `json:"institutionName"`
	EducationStartDate string              `json:"educationStartDate"`
	EducationEndDate   string              `json:"educationEndDate"`
	Experience         int                 `json:"experience" validate:"min=0"`
	Languages          []string            `json:"languages"`
	SocialLinks        []models.SocialLink `json:"socialLinks"`
	AvailableTimes     flexAvailability    `json:"availableTimes"`
	Category           string              `json:"category"`
	PerHourRate        decimal.Decimal     `json:"perHourRate"`
}

var guruSignupMessages = map[string]string{
	"username":        "Username is required and must be at least 3 characters long.",
	"email":           "A valid email is required.",
	"password":        "Password is required and must be at least 6 characters long.",
	"phone":           "Phone number is required and must include a country code, with a total length of 10 to 13 digits.",
	"address.city":    addressMessage,
	"address.state":   addressMessage,
	"address.country": addressMessage,
	"address.zipCode": addressMessage,
	"aboutMe":         "About me cannot exceed 500 characters.",
	"teachingMode":    "Teaching mode must be Online, Offline, or Hybrid.",
	"experience":      "Experience cannot be negative.",
}

// bindGuruSignup reads a JSON body or the fields of a multipart signup form.
func bindGuruSignup(c *fiber.Ctx) (GuruSignupRequest, error) {
	var req GuruSignupRequest
	if !isMultipart(c) {
		err := c.BodyParser(&req)
		return req, err
	}

	req.Username = formValue(c, "username")
	req.Email = formValue(c, "email")
	req.Password = c.FormValue("password")
	req.Phone = formValue(c, "phone")
	req.Address = formAddress(c)
	req.AboutMe = c.FormValue("aboutMe")
	req.TeachingMode = formValue(c, "teachingMode")
	req.Skills = formList(c, "skills")
	req.Languages = formList(c, "languages")
	req.InstitutionName = c.FormValue("institutionName")
	req.EducationStartDate = c.FormValue("educationStartDate")
	req.EducationEndDate = c.FormValue("educationEndDate")
	req.Category = formValue(c, "category")

	if v := formValue(c, "experience"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, err
		}
		req.Experience = n
	}
	if v := formValue(c, "perHourRate"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return req, err
		}
		req.PerHourRate = rate
	}
	if err := formJSON(c, "education", &req.Education); err != nil {
		return req, err
	}
	if err := formJSON(c, "availableTimes", &req.AvailableTimes); err != nil {
		return req, err
	}
	if raw := formValue(c, "socialLinks"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.SocialLinks); err != nil {
			return req, err
		}
	}
	return req, nil
}

type GuruUpdateRequest struct {
	Username           *string              `json:"username" validate:"omitempty,min=3"`
	Email              *string              `json:"email" validate:"omitempty,email"`
	Password           *string              `json:"password" validate:"omitempty,min=8,letterdigit"`
	Phone              *string              `json:"phone" validate:"omitempty,phone"`
	Address            *AddressUpdate       `json:"address"`
	AboutMe            *string              `json:"aboutMe" validate:"omitempty,max=500"`
	TeachingMode       *string              `json:"teachingMode" validate:"omitempty,oneof=Online Offline Hybrid"`
	Skills             *[]string            `json:"skills"`
	Education          flexEducation        `json:"education"`
	InstitutionName    string               `json:"institutionName"`
	EducationStartDate string               `json:"educationStartDate"`
	EducationEndDate   string               `json:"educationEndDate"`
	Experience         *int                 `json:"experience" validate:"omitempty,min=0"`
	Languages          *[]string            `json:"languages"`
	SocialLinks        *[]models.SocialLink `json:"socialLinks"`
	AvailableTimes     flexAvailability     `json:"availableTimes"`
	Category           *string              `json:"category"`
	PerHourRate        *decimal.Decimal     `json:"perHourRate"`
}

var guruUpdateMessages = map[string]string{
	"username":     "Username must be at least 3 characters long.",
	"email":        "A valid email is required.",
	"password":     "Password must be at least 8 characters long and contain at least one letter and one number.",
	"phone":        "Phone number must include a country code, with a total length of 10 to 13 digits.",
	"aboutMe":      "About me cannot exceed 500 characters.",
	"teachingMode": "Teaching mode must be Online, Offline, or Hybrid.",
	"experience":   "Experience cannot be negative.",
}

type StudentSignupRequest struct {
	Username  string          `json:"username" validate:"required,min=3,max=50"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=6"`
	Phone     string          `json:"phone" validate:"required,phone"`
	Address   *AddressRequest `json:"address"`
	AboutMe   string          `json:"aboutMe" validate:"max=500"`
	Languages []string        `json:"languages"`
}

var studentSignupMessages = map[string]string{
	"username":        "Username is required and must be at least 3 characters long.",
	"email":           "A valid email is required.",
	"password":        "Password must be at least 6 characters long.",
	"phone":           "Phone number is required and must include a country code, with a total length of 10 to 13 digits.",
	"address.city":    addressMessage,
	"address.state":   addressMessage,
	"address.country": addressMessage,
	"address.zipCode": addressMessage,
	"aboutMe":         "About me cannot exceed 500 characters.",
}

func bindStudentSignup(c *fiber.Ctx) (StudentSignupRequest, error) {
	var req StudentSignupRequest
	if !isMultipart(c) {
		err := c.BodyParser(&req)
		return req, err
	}

	req.Username = formValue(c, "username")
	req.Email = formValue(c, "email")
	req.Password = c.FormValue("password")
	req.Phone = formValue(c, "phone")
	req.AboutMe = c.FormValue("aboutMe")
	req.Languages = formList(c, "languages")
	if addr := formAddress(c); addr != (AddressRequest{}) {
		req.Address = &addr
	}
	return req, nil
}

type StudentUpdateRequest struct {
	Username  *string        `json:"username" validate:"omitempty,min=3,max=50"`
	Email     *string        `json:"email" validate:"omitempty,email"`
	Password  *string        `json:"password" validate:"omitempty,min=6"`
	Phone     *string        `json:"phone" validate:"omitempty,phone"`
	Address   *AddressUpdate `json:"address"`
	AboutMe   *string        `json:"aboutMe" validate:"omitempty,max=500"`
	Languages *[]string      `json:"languages"`
}

var studentUpdateMessages = map[string]string{
	"username": "Username must be at least 3 characters long.",
	"email":    "A valid email is required.",
	"password": "Password must be at least 6 characters long.",
	"phone":    "Phone number must include a country code, with a total length of 10 to 13 digits.",
	"aboutMe":  "About me cannot exceed 500 characters.",
}
