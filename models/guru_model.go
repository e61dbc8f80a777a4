package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Education struct {
	Degree          string `json:"degree"`
	InstitutionName string `json:"institutionName"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	Link     string `json:"link"`
}

type AvailableTime struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

type Guru struct {
	Model
	Username       string          `gorm:"size:255;not null;unique" json:"username"`
	Email          string          `gorm:"size:255;not null;unique" json:"email"`
	Password       string          `gorm:"not null" json:"-"`
	Phone          string          `gorm:"size:20;not null" json:"phone"`
	Address        Address         `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	ProfileImage   *string         `gorm:"size:512" json:"profileImage"`
	AboutMe        string          `gorm:"type:text" json:"aboutMe"`
	TeachingMode   string          `gorm:"size:20" json:"teachingMode,omitempty"`
	Skills         []string        `gorm:"type:text;serializer:json" json:"skills"`
	Education      []Education     `gorm:"type:text;serializer:json" json:"education"`
	Experience     int             `json:"experience"`
	Languages      []string        `gorm:"type:text;serializer:json" json:"languages"`
	SocialLinks    []SocialLink    `gorm:"type:text;serializer:json" json:"socialLinks"`
	IsOnline       bool            `gorm:"default:false" json:"isOnline"`
	Verified       bool            `gorm:"default:false" json:"verified"`
	Role           string          `gorm:"size:20;not null;default:'guru'" json:"role"`
	Earnings       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"earnings"`
	Rating         float64         `gorm:"not null;default:0" json:"rating"`
	AvailableTimes []AvailableTime `gorm:"type:text;serializer:json" json:"availableTimes"`
	Category       string          `gorm:"size:100" json:"category"`
	PerHourRate    decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"perHourRate"`
}

func (g *Guru) BeforeSave(tx *gorm.DB) error {
	g.Username = strings.TrimSpace(g.Username)
	g.Email = strings.TrimSpace(g.Email)
	if g.Role == "" {
		g.Role = RoleGuru
	}
	return nil
}

func (g *Guru) Ref() UserRef {
	return UserRef{ID: g.ID, Username: g.Username}
}
