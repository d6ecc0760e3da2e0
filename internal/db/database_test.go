package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpenSQLite_MigrateAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	gdb, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(gdb))

	p := models.Product{
		Name:     "Tee",
		Price:    19.5,
		Images:   []string{"a.png", "b.png"},
		Variants: []models.Variant{{Size: "M", Color: "red", Stock: 3}},
		ProductSpecifications: map[string]string{"fabric": "cotton"},
	}
	require.NoError(t, gdb.WithContext(ctx).Create(&p).Error)

	var got models.Product
	require.NoError(t, gdb.WithContext(ctx).First(&got, "id = ?", p.ID).Error)
	require.Equal(t, p.Images, got.Images)
	require.Equal(t, p.Variants, got.Variants)
	require.Equal(t, "cotton", got.ProductSpecifications["fabric"])
	require.NoError(t, Ping(ctx, gdb))
}
