package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := map[float64]string{
		0:         "0,00",
		65:        "65,00",
		1234.5:    "1.234,50",
		1234567.8: "1.234.567,80",
		-1500:     "-1.500,00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCurrency(in))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "Ayse", "biz-1", []string{"waiter"})
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "biz-1", claims.BusinessID)
	assert.True(t, claims.HasRole("bar", "waiter"))
	assert.False(t, claims.HasRole("admin"))

	BlacklistToken(token)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { InitLogger("", "") })

	InitLogger("debug", "JSON")
	assert.Equal(t, logrus.DebugLevel, InfoLogger.GetLevel())
	assert.Equal(t, logrus.WarnLevel, ErrorLogger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, InfoLogger.Formatter)

	InitLogger("loud", "")
	assert.Equal(t, logrus.InfoLevel, InfoLogger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, InfoLogger.Formatter)

	InitLogger("error", "text")
	assert.Equal(t, logrus.ErrorLevel, ErrorLogger.GetLevel())
}
