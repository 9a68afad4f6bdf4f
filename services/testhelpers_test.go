package services

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"propalyze-cleaner/models"
	"propalyze-cleaner/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, "error") }

func mustParse(t *testing.T, doc string) models.Value {
	t.Helper()
	v, err := models.ParseJSON([]byte(doc))
	require.NoError(t, err)
	return v
}

func record(t *testing.T, doc string) RawRecord {
	t.Helper()
	return NewRawRecord(mustParse(t, doc))
}
