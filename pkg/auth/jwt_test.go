package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantaohub/oncall-api/internal/model"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "oncall-test")

	hospitalID := int64(3)
	actor := &model.Actor{ID: 7, Role: model.RoleManager, HospitalID: &hospitalID}

	token, err := m.Generate(actor)
	require.NoError(t, err)

	parsed, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), parsed.ID)
	assert.Equal(t, model.RoleManager, parsed.Role)
	require.NotNil(t, parsed.HospitalID)
	assert.Equal(t, int64(3), *parsed.HospitalID)
}

func TestVerifyExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, "oncall-test")

	token, err := m.Generate(&model.Actor{ID: 1, Role: model.RoleClinician})
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour, "oncall-test")
	verifier := NewJWTManager("secret-b", time.Hour, "oncall-test")

	token, err := issuer.Generate(&model.Actor{ID: 1, Role: model.RoleClinician})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "oncall-test")

	_, err := m.Verify("definitely.not.ajwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
