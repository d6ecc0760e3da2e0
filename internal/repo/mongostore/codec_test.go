package mongostore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func TestRegistry_EncodesUUIDAsString(t *testing.T) {
	reg := NewRegistry()
	id := uuid.New()

	raw, err := bson.MarshalWithRegistry(reg, bson.M{"_id": id})
	require.NoError(t, err)

	var plain bson.M
	require.NoError(t, bson.Unmarshal(raw, &plain))
	assert.Equal(t, id.String(), plain["_id"])
}

func TestRegistry_DecodesNestedAndOptionalUUIDs(t *testing.T) {
	reg := NewRegistry()
	orderID := uuid.New()
	in := models.ReturnRequest{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		OrderID: &orderID,
		Reason:  "damaged",
		Status:  models.ReturnRequested,
	}

	raw, err := bson.MarshalWithRegistry(reg, in)
	require.NoError(t, err)

	var out models.ReturnRequest
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.UserID, out.UserID)
	require.NotNil(t, out.OrderID)
	assert.Equal(t, orderID, *out.OrderID)
	assert.Nil(t, out.ProductID)
}

func TestRegistry_RejectsMalformedUUID(t *testing.T) {
	reg := NewRegistry()
	raw, err := bson.Marshal(bson.M{"_id": "not-a-uuid"})
	require.NoError(t, err)

	var out struct {
		ID uuid.UUID `bson:"_id"`
	}
	require.Error(t, bson.UnmarshalWithRegistry(reg, raw, &out))
}
