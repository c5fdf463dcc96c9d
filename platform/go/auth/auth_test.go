package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func unsignedToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	encode := func(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }
	return encode([]byte(`{"alg":"none"}`)) + "." + encode(payload) + "."
}

func TestExtractJWTToken(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, found := ExtractJWTToken(r)
	require.False(t, found)

	r.Header.Set("Authorization", "bearer abc.def.ghi")
	token, found := ExtractJWTToken(r)
	require.True(t, found)
	require.Equal(t, "abc.def.ghi", token)
}

func TestJWTMiddlewareSetsCredentials(t *testing.T) {
	t.Parallel()

	token := unsignedToken(t, map[string]interface{}{
		"sub":            "firebase-uid-1",
		"email":          "admin@acme.test",
		"email_verified": true,
		"name":           "Admin",
	})

	var got *UserCredentials
	handler := JWT(UnsignedTokenVerifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	require.Equal(t, "firebase-uid-1", got.UID)
	require.Equal(t, "admin@acme.test", got.Email)
	require.True(t, got.EmailVerified)
	require.NotNil(t, got.Name)
	require.Equal(t, "Admin", *got.Name)
}

func TestJWTMiddlewarePassesThroughWithoutToken(t *testing.T) {
	t.Parallel()

	called := false
	handler := JWT(UnsignedTokenVerifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := UserFromContext(r.Context())
		require.False(t, ok)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
}

func TestJWTMiddlewareRejectsMissingSubject(t *testing.T) {
	t.Parallel()

	token := unsignedToken(t, map[string]interface{}{"email": "nobody@acme.test"})

	handler := JWT(UnsignedTokenVerifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
