package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	platformauth "github.com/rlst8/rlst8/platform/go/auth"
	"github.com/rlst8/rlst8/platform/go/authn"
)

// buildAuthProvider constructs the auth provider used by registration plus
// the JWT middleware that verifies tokens on the protected router. Both come
// from the same backend so dev mode stays self-contained.
func buildAuthProvider(ctx context.Context, cfg config, logger *zap.Logger) (authn.Provider, func(http.Handler) http.Handler) {
	switch cfg.AuthProvider {
	case "firebase":
		var credentialsFile *string
		if cfg.AuthCredentialsFile != "" {
			credentialsFile = &cfg.AuthCredentialsFile
		}

		provider, err := authn.NewFirebaseProvider(ctx, authn.FirebaseConfig{
			CredentialsFile: credentialsFile,
			WebAPIKey:       cfg.AuthWebAPIKey,
			SignInEndpoint:  cfg.AuthSignInEndpoint,
		})
		if err != nil {
			logger.Fatal("init firebase auth", zap.Error(err))
		}
		return provider, platformauth.JWT(platformauth.FirebaseTokenVerifier(provider.Auth()))
	case "dev":
		logger.Warn("using dev auth provider; do not use in production")
		return authn.NewDevProvider(), platformauth.JWT(platformauth.UnsignedTokenVerifier())
	default:
		logger.Fatal("unsupported auth provider", zap.String("provider", cfg.AuthProvider))
		return nil, nil
	}
}
