package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Address struct {
	ID           uuid.UUID `gorm:"primaryKey"     json:"id"   bson:"_id"`
	UserID       uuid.UUID `gorm:"index;not null" json:"user" bson:"userId"`
	Name         string    `json:"name"         bson:"name"`
	Phone        string    `json:"phone"        bson:"phone"`
	Line1        string    `gorm:"not null" json:"line1" bson:"line1"`
	Line2        string    `json:"line2"        bson:"line2"`
	City         string    `gorm:"not null" json:"city" bson:"city"`
	State        string    `json:"state"        bson:"state"`
	PostalCode   string    `json:"postalCode"   bson:"postalCode"`
	Country      string    `gorm:"not null" json:"country" bson:"country"`
	Landmark     string    `json:"landmark"     bson:"landmark"`
	Instructions string    `json:"instructions" bson:"instructions"`
	IsDefault    bool      `json:"isDefault"    bson:"isDefault"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

const (
	ReturnRequested = "Requested"
	ReturnApproved  = "Approved"
	ReturnRejected  = "Rejected"
	ReturnPicked    = "Picked"
	ReturnRefunded  = "Refunded"
)

var ReturnStatuses = []string{ReturnRequested, ReturnApproved, ReturnRejected, ReturnPicked, ReturnRefunded}

type ReturnRequest struct {
	ID        uuid.UUID  `gorm:"primaryKey"     json:"id"     bson:"_id"`
	UserID    uuid.UUID  `gorm:"index;not null" json:"userId" bson:"userId"`
	OrderID   *uuid.UUID `json:"orderId,omitempty"   bson:"orderId,omitempty"`
	ProductID *uuid.UUID `json:"productId,omitempty" bson:"productId,omitempty"`
	Reason    string     `gorm:"not null" json:"reason" bson:"reason"`
	Comment   string     `json:"comment,omitempty" bson:"comment,omitempty"`
	Status    string     `gorm:"not null" json:"status" bson:"status"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func (ReturnRequest) TableName() string {
	return "returns"
}

func (r *ReturnRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
