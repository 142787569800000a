package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSheetsCredentialsRoundTrip(t *testing.T) {
	keyring.MockInit()

	_, err := GetSheetsCredentials("ci")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, SetSheetsCredentials("ci", []byte(`{"type":"service_account"}`)))
	got, err := GetSheetsCredentials("ci")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(got))

	require.NoError(t, DeleteSheetsCredentials("ci"))
	_, err = GetSheetsCredentials("ci")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetSheetsCredentialsRejectsBadInput(t *testing.T) {
	keyring.MockInit()

	assert.Error(t, SetSheetsCredentials("", []byte(`{}`)))
	assert.Error(t, SetSheetsCredentials("ci", []byte(`not json`)))
	assert.Error(t, DeleteSheetsCredentials("  "))
}
