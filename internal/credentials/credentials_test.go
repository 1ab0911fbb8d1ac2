package credentials

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/tweetauth/internal/oauthflow"
	"github.com/florianilch/tweetauth/internal/secret"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{
			name:  "with refresh token",
			creds: Credentials{AccessToken: secret.NewAccessToken("AT1"), RefreshToken: secret.NewRefreshToken("RT1")},
			want:  `{"access_token":"AT1","refresh_token":"RT1"}`,
		},
		{
			name:  "without refresh token",
			creds: Credentials{AccessToken: secret.NewAccessToken("AT2")},
			want:  `{"access_token":"AT2","refresh_token":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(&tt.creds)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			parsed, err := Parse(data)
			require.NoError(t, err)
			assert.Equal(t, tt.creds.AccessToken.Expose(), parsed.AccessToken.Expose())
			assert.Equal(t, tt.creds.RefreshToken.IsZero(), parsed.RefreshToken.IsZero())
			assert.Equal(t, tt.creds.RefreshToken.Expose(), parsed.RefreshToken.Expose())

			again, err := Marshal(parsed)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantAccess  string
		wantRefresh string
	}{
		{"refresh token absent", `{"access_token":"AT"}`, "AT", ""},
		{"refresh token null", `{"access_token":"AT","refresh_token":null}`, "AT", ""},
		{"unknown fields ignored", `{"access_token":"AT","refresh_token":"RT","expires_in":7200}`, "AT", "RT"},
		{"surrounding whitespace", "\n {\"refresh_token\":\"RT\",\"access_token\":\"AT\"}\n", "AT", "RT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccess, creds.AccessToken.Expose())
			assert.Equal(t, tt.wantRefresh, creds.RefreshToken.Expose())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		``,
		`null`,
		`"AT"`,
		`[]`,
		`{}`,
		`{"refresh_token":"RT"}`,
		`{"access_token":null}`,
		`{"access_token":42}`,
		`{"access_token":{"value":"AT"}}`,
		`{"access_token":"AT","refresh_token":42}`,
		`{"access_token":"AT"`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestRefreshed(t *testing.T) {
	previous := &Credentials{
		AccessToken:  secret.NewAccessToken("AT1"),
		RefreshToken: secret.NewRefreshToken("RT1"),
	}

	t.Run("rotated", func(t *testing.T) {
		next := previous.Refreshed(&oauthflow.TokenResponse{
			AccessToken:  secret.NewAccessToken("AT2"),
			RefreshToken: secret.NewRefreshToken("RT2"),
		})
		assert.Equal(t, "AT2", next.AccessToken.Expose())
		assert.Equal(t, "RT2", next.RefreshToken.Expose())
	})

	t.Run("not rotated keeps previous refresh token", func(t *testing.T) {
		next := previous.Refreshed(&oauthflow.TokenResponse{
			AccessToken: secret.NewAccessToken("AT2"),
		})
		assert.Equal(t, "AT2", next.AccessToken.Expose())
		assert.Equal(t, "RT1", next.RefreshToken.Expose())
	})

	assert.Equal(t, "AT1", previous.AccessToken.Expose(), "previous credentials are not modified")
}

func TestCredentialsDoNotLeakThroughFmt(t *testing.T) {
	creds := Credentials{AccessToken: secret.NewAccessToken("AT1"), RefreshToken: secret.NewRefreshToken("RT1")}

	out := fmt.Sprintf("%v %+v", creds, creds)
	assert.NotContains(t, out, "AT1")
	assert.NotContains(t, out, "RT1")

	// json is the explicit persistence path and does expose the values.
	data, err := json.Marshal(creds)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AT1")
}
