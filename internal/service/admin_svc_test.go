package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lineboost_console/internal/api/dto"
)

func TestFilterShops(t *testing.T) {
	shops := []dto.AdminShop{
		{ID: "1", Name: "Tea House", OwnerEmail: "a@tea.test"},
		{ID: "2", Name: "ร้านกาแฟ", OwnerEmail: "owner@coffee.test"},
	}

	assert.Len(t, FilterShops(shops, ""), 2)
	assert.Equal(t, "1", FilterShops(shops, "  TEA ")[0].ID)
	assert.Equal(t, "2", FilterShops(shops, "coffee")[0].ID)
	assert.Equal(t, "2", FilterShops(shops, "กาแฟ")[0].ID)
	assert.Empty(t, FilterShops(shops, "bakery"))
}

func TestAdminService_UpdateTier(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("PATCH", "/admin/shops/sh1/tier", 200, `{"success":true}`)
	svc := NewAdminService(api)

	assert.Error(t, svc.UpdateTier(context.Background(), "tok", "sh1", "Gold"))
	assert.Equal(t, 0, b.count("PATCH", "/admin/shops/sh1/tier"))

	assert.NoError(t, svc.UpdateTier(context.Background(), "tok", "sh1", "Pro"))
	rec, _ := b.last("PATCH", "/admin/shops/sh1/tier")
	assert.Equal(t, "Pro", rec.Body["tier"])
}

func TestAdminService_ShopsNeverNil(t *testing.T) {
	b, api := newFakeBackend(t)
	b.on("GET", "/admin/shops", 200, `{"success":true,"data":null}`)
	svc := NewAdminService(api)

	got, err := svc.Shops(context.Background(), "tok")

	assert.NoError(t, err)
	assert.NotNil(t, got)
}
