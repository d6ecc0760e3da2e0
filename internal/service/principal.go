package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

// Principal is the authenticated caller as established by the auth middleware.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// authorize allows the owner of a resource or any admin.
func (p Principal) authorize(owner uuid.UUID) error {
	if p.UserID == owner || p.IsAdmin() {
		return nil
	}
	return forbidden()
}

func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, invalid(field+" is required", field, "required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalid("Invalid "+field, field, "must be a valid id")
	}
	return id, nil
}

// parseOptionalID returns nil for an empty value.
func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
