package dynamodb

import (
	"encoding/base64"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	key := map[string]types.AttributeValue{
		attrPK:     &types.AttributeValueMemberS{Value: "EVENT#abc"},
		attrSK:     &types.AttributeValueMemberS{Value: "EVENT#abc"},
		attrGSI1PK: &types.AttributeValueMemberS{Value: "CITY#new_york"},
		attrGSI1SK: &types.AttributeValueMemberS{Value: "DATE#2025-06-01#EVENT#abc"},
	}

	cursor := EncodeCursor(key)
	require.NotEmpty(t, cursor)
	assert.NotContains(t, cursor, "+")
	assert.NotContains(t, cursor, "/")

	decoded, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, key, decoded)
}

func TestCursor_EmptyAndMalformed(t *testing.T) {
	assert.Equal(t, "", EncodeCursor(nil))

	key, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, key)

	for _, bad := range []string{
		"%%%not-base64",
		base64.URLEncoding.EncodeToString([]byte("not json")),
		base64.URLEncoding.EncodeToString([]byte("{}")),
	} {
		key, err := DecodeCursor(bad)
		assert.Error(t, err, bad)
		assert.Nil(t, key)
	}
}
