package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultRewardTier = "Bronze"
)

type Rewards struct {
	Points int    `json:"points" bson:"points"`
	Tier   string `json:"tier"   bson:"tier"`
}

// PaymentMethod is a display summary only; full instrument data is never stored.
type PaymentMethod struct {
	Type        string `json:"type"        bson:"type"`
	Label       string `json:"label"       bson:"label"`
	MaskedValue string `json:"maskedValue" bson:"maskedValue"`
	IsDefault   bool   `json:"isDefault"   bson:"isDefault"`
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"           json:"id"    bson:"_id"`
	Name         string    `gorm:"not null"             json:"name"  bson:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	PasswordHash string    `gorm:"not null"             json:"-"     bson:"passwordHash"`
	Role         string    `gorm:"not null"             json:"role"  bson:"role"`

	Phone                  string     `json:"phone,omitempty" bson:"phone,omitempty"`
	PhoneVerified          bool       `json:"phoneVerified"   bson:"phoneVerified"`
	SMSVerificationCode    string     `json:"-"               bson:"smsVerificationCode,omitempty"`
	SMSVerificationExpires *time.Time `json:"-"               bson:"smsVerificationExpires,omitempty"`

	EmailVerified            bool       `json:"emailVerified" bson:"emailVerified"`
	EmailVerificationCode    string     `json:"-"             bson:"emailVerificationCode,omitempty"`
	EmailVerificationExpires *time.Time `json:"-"             bson:"emailVerificationExpires,omitempty"`

	ResetPasswordToken   string     `gorm:"index" json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time `json:"-"             bson:"resetPasswordExpires,omitempty"`

	Wishlist       []uuid.UUID     `gorm:"type:text;serializer:json"        json:"wishlist"       bson:"wishlist"`
	Rewards        Rewards         `gorm:"embedded;embeddedPrefix:rewards_" json:"rewards"        bson:"rewards"`
	PaymentMethods []PaymentMethod `gorm:"type:text;serializer:json"        json:"paymentMethods" bson:"paymentMethods"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Prepare()
	return nil
}

// Prepare fills the id and the defaults a freshly registered user carries.
func (u *User) Prepare() {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Rewards.Tier == "" {
		u.Rewards.Tier = DefaultRewardTier
	}
	if u.Wishlist == nil {
		u.Wishlist = []uuid.UUID{}
	}
	if u.PaymentMethods == nil {
		u.PaymentMethods = []PaymentMethod{}
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RevokedToken records a logged-out access token id until the token would have expired anyway.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey"     json:"jti"        bson:"_id"`
	UserID    uuid.UUID `gorm:"index;not null" json:"user_id"    bson:"userId"`
	ExpiresAt time.Time `gorm:"not null"       json:"expires_at" bson:"expiresAt"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
