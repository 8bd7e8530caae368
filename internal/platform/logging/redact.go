package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Field names whose values are always masked, matched exactly.
var credentialFields = []string{
	"authorization",
	"proxy-authorization",
	"x-serverless-authorization",
	"x-goog-iap-jwt-assertion",
	"x-api-key",
	"cookie",
	"password",
	"secret",
	"token",
	"access_token",
	"jwt_secret",
}

// Field name prefixes whose values are always masked.
var credentialPrefixes = []string{"secret_", "api_key"}

// Value patterns masked wherever they appear, e.g. a bearer token echoed in
// an action's parameters.
var credentialValues = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
	// header.payload.signature, at least 10 characters per segment so that
	// dotted version strings survive.
	regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`),
	regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`),
}

// newRedactor returns a masq ReplaceAttr function for the credential sets
// above.
func newRedactor() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(credentialFields)+len(credentialPrefixes)+len(credentialValues))
	for _, name := range credentialFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, prefix := range credentialPrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	for _, re := range credentialValues {
		opts = append(opts, masq.WithRegex(re))
	}
	return masq.New(opts...)
}
