package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderDocumentsServerFields(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Summary     string `json:"summary"`
			Description string `json:"description"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	op := doc.Paths["/orders"]["post"]
	assert.Equal(t, "Create order", op.Summary)
	assert.Contains(t, op.Description, "orderId")
	assert.Contains(t, op.Description, "timestamp")
	assert.Contains(t, op.Description, "overwritten")
}
