package authn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsCredentialError(t *testing.T) {
	t.Parallel()

	for _, code := range []string{
		"INVALID_LOGIN_CREDENTIALS",
		"INVALID_LOGIN_CREDENTIALS : Access to this account has been temporarily disabled",
		"INVALID_PASSWORD",
		"EMAIL_NOT_FOUND",
		"USER_DISABLED",
	} {
		require.True(t, isCredentialError(code), code)
	}

	for _, code := range []string{
		"TOO_MANY_ATTEMPTS_TRY_LATER",
		"OPERATION_NOT_ALLOWED",
		"",
	} {
		require.False(t, isCredentialError(code), code)
	}
}
