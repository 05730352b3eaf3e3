package authenticator_test

import (
	"testing"
	"time"

	"github.com/nextlevel/reward-engine/config"
	"github.com/nextlevel/reward-engine/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type tokenInfo struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[tokenInfo]("secret", config.TokenConfigs{Expiration: time.Minute})
	token, err := engine.Generate("user1", tokenInfo{ID: "user1", Role: "PARTICIPANT"})
	require.NoError(t, err)

	info, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, tokenInfo{ID: "user1", Role: "PARTICIPANT"}, info)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[tokenInfo]("secret", config.TokenConfigs{Expiration: -time.Second})
	token, err := engine.Generate("user1", tokenInfo{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	engine := authenticator.NewTokenEngine[tokenInfo]("secret", config.TokenConfigs{Expiration: time.Minute})
	token, err := engine.Generate("user1", tokenInfo{ID: "user1"})
	require.NoError(t, err)

	other := authenticator.NewTokenEngine[tokenInfo]("other-secret", config.TokenConfigs{Expiration: time.Minute})
	info, err := other.Verify(token)
	require.Error(t, err)
	require.Empty(t, info.ID)
}
