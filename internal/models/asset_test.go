package models

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestAsset_ModelNameMapping(t *testing.T) {
	s, err := schema.Parse(&Asset{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	f := s.LookUpField("ModelName")
	require.NotNil(t, f)
	assert.Equal(t, "model", f.DBName)
	assert.NotNil(t, s.LookUpField("ID"), "embedded gorm.Model is still promoted")

	raw, err := json.Marshal(Asset{Name: "db-01", ModelName: "ProLiant DL380"})
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "ProLiant DL380", out["model"])
	assert.Contains(t, out, "ID")
}
