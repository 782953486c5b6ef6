package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	"github.com/keyfold/keyfold/internal/credential/http/dto"
)

func plaintextFixture() *credentialDomain.PlaintextCredential {
	now := time.Now().UTC()
	apiKey := "key-123"
	return &credentialDomain.PlaintextCredential{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: uuid.Must(uuid.NewV7()),
		OwnerID:        uuid.Must(uuid.NewV7()),
		Name:           "prod-db",
		Username:       "svc-user",
		Password:       "s3cret",
		APIKey:         &apiKey,
		Tags:           []string{"prod"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestMapPlaintextToMetadataResponse_ExcludesSecrets(t *testing.T) {
	credential := plaintextFixture()

	response := dto.MapPlaintextToMetadataResponse(credential)

	assert.Equal(t, credential.ID.String(), response.ID)
	assert.Equal(t, "prod-db", response.Name)
	assert.Empty(t, response.Username)
	assert.Empty(t, response.Password)
	assert.Nil(t, response.APIKey)

	// The secret fields must also be absent from the serialized form.
	body, err := json.Marshal(response)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "svc-user")
	assert.NotContains(t, string(body), "s3cret")
	assert.NotContains(t, string(body), "key-123")
}

func TestMapPlaintextToGetResponse_IncludesSecrets(t *testing.T) {
	credential := plaintextFixture()

	response := dto.MapPlaintextToGetResponse(credential)

	assert.Equal(t, "svc-user", response.Username)
	assert.Equal(t, "s3cret", response.Password)
	require.NotNil(t, response.APIKey)
	assert.Equal(t, "key-123", *response.APIKey)
	assert.Nil(t, response.Notes)
}

func TestMapCredentialsToListResponse(t *testing.T) {
	now := time.Now().UTC()
	credentials := []*credentialDomain.Credential{
		{
			ID:                uuid.Must(uuid.NewV7()),
			OrganizationID:    uuid.Must(uuid.NewV7()),
			OwnerID:           uuid.Must(uuid.NewV7()),
			Name:              "first",
			EncryptedUsername: "aa:bb:cc",
			EncryptedPassword: "dd:ee:ff",
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.Must(uuid.NewV7()),
			OrganizationID:    uuid.Must(uuid.NewV7()),
			OwnerID:           uuid.Must(uuid.NewV7()),
			Name:              "second",
			EncryptedUsername: "11:22:33",
			EncryptedPassword: "44:55:66",
			Tags:              []string{"shared"},
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}

	response := dto.MapCredentialsToListResponse(credentials)

	require.Len(t, response.Data, 2)
	assert.Equal(t, "first", response.Data[0].Name)
	assert.Equal(t, "second", response.Data[1].Name)

	// nil tags serialize as an empty array, not null.
	assert.Equal(t, []string{}, response.Data[0].Tags)
	assert.Equal(t, []string{"shared"}, response.Data[1].Tags)

	// Ciphertext never reaches the wire format.
	body, err := json.Marshal(response)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "aa:bb:cc")
	assert.NotContains(t, string(body), "44:55:66")
}

func TestMapCredentialsToListResponse_Empty(t *testing.T) {
	response := dto.MapCredentialsToListResponse(nil)
	assert.NotNil(t, response.Data)
	assert.Len(t, response.Data, 0)
}
