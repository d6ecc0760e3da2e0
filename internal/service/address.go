package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type AddressService struct {
	Addresses repo.Addresses
}

func (s *AddressService) Create(ctx context.Context, p Principal, req transport.AddressRequest) (*models.Address, error) {
	a := &models.Address{UserID: p.UserID}
	applyAddress(a, req)
	if err := requireFields("line1, city and country are required",
		"line1", a.Line1, "city", a.City, "country", a.Country); err != nil {
		return nil, err
	}

	if err := s.Addresses.CreateAddress(ctx, a); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	if err := s.keepSingleDefault(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) List(ctx context.Context, p Principal) ([]models.Address, error) {
	return s.Addresses.ListAddresses(ctx, p.UserID)
}

func (s *AddressService) Update(ctx context.Context, p Principal, rawID string, req transport.AddressRequest) (*models.Address, error) {
	a, err := s.owned(ctx, p, rawID)
	if err != nil {
		return nil, err
	}
	applyAddress(a, req)
	if err := requireFields("line1, city and country cannot be empty",
		"line1", a.Line1, "city", a.City, "country", a.Country); err != nil {
		return nil, err
	}

	if err := s.Addresses.SaveAddress(ctx, a); err != nil {
		return nil, fmt.Errorf("save address: %w", err)
	}
	if err := s.keepSingleDefault(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Delete(ctx context.Context, p Principal, rawID string) error {
	a, err := s.owned(ctx, p, rawID)
	if err != nil {
		return err
	}
	return fromRepo(s.Addresses.DeleteAddress(ctx, a.ID), "Address")
}

func (s *AddressService) owned(ctx context.Context, p Principal, rawID string) (*models.Address, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	a, err := s.Addresses.GetAddress(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Address")
	}
	if err := p.authorize(a.UserID); err != nil {
		return nil, err
	}
	return a, nil
}

// keepSingleDefault unsets the flag on the owner's other addresses.
func (s *AddressService) keepSingleDefault(ctx context.Context, a *models.Address) error {
	if !a.IsDefault {
		return nil
	}
	if err := s.Addresses.ClearDefaultAddress(ctx, a.UserID, a.ID); err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}
	return nil
}

func applyAddress(a *models.Address, req transport.AddressRequest) {
	trim := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	trim(&a.Name, req.Name)
	trim(&a.Phone, req.Phone)
	trim(&a.Line1, req.Line1)
	trim(&a.Line2, req.Line2)
	trim(&a.City, req.City)
	trim(&a.State, req.State)
	trim(&a.Country, req.Country)
	trim(&a.Landmark, req.Landmark)
	trim(&a.Instructions, req.Instructions)
	// pincode is the storefront's name for the same field
	trim(&a.PostalCode, req.Pincode)
	trim(&a.PostalCode, req.PostalCode)
	setIf(&a.IsDefault, req.IsDefault)
}
