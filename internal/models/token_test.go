package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRefreshToken_Valid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token RefreshToken
		want  bool
	}{
		{
			name:  "not revoked and not expired",
			token: RefreshToken{Revoked: false, ExpiresAt: now.Add(time.Hour)},
			want:  true,
		},
		{
			name:  "revoked",
			token: RefreshToken{Revoked: true, ExpiresAt: now.Add(time.Hour)},
			want:  false,
		},
		{
			name:  "expired",
			token: RefreshToken{Revoked: false, ExpiresAt: now.Add(-time.Second)},
			want:  false,
		},
		{
			name:  "expires exactly now",
			token: RefreshToken{Revoked: false, ExpiresAt: now},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.token.Valid(now))
		})
	}
}
