package traccar

import (
	"context"
	"encoding/base64"

	"github.com/awantoch/traccarproxy/constants"
	"github.com/awantoch/traccarproxy/secrets"
)

// Credentials is the Basic-auth pair sent to Traccar.
type Credentials struct {
	User string
	Pass string
}

// BasicAuth renders the Authorization header value. Empty fields are encoded
// as-is, so missing credentials yield "Basic Og==".
func (c Credentials) BasicAuth() string {
	return constants.BasicAuthPrefix + base64.StdEncoding.EncodeToString([]byte(c.User+":"+c.Pass))
}

// LoadCredentials resolves TRACCAR_USER and TRACCAR_PASS from p. Keys the
// provider does not have resolve to "".
func LoadCredentials(ctx context.Context, p secrets.SecretsProvider) (Credentials, error) {
	user, err := secrets.Lookup(ctx, p, constants.EnvTraccarUser)
	if err != nil {
		return Credentials{}, err
	}
	pass, err := secrets.Lookup(ctx, p, constants.EnvTraccarPass)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{User: user, Pass: pass}, nil
}
