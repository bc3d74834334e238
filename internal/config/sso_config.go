package config

type SSOConfig interface {
	// GetSSOIssuer returns the OIDC issuer URL of the external identity
	// provider, or "" when SSO login is disabled.
	GetSSOIssuer() string
	GetSSOClientID() string
	GetSSOClientSecret() string
	GetSSORedirectURL() string
}

type SSO struct{}

var _ SSOConfig = SSO{}

func (SSO) GetSSOIssuer() string {
	return GetEnv("SSO_ISSUER", "")
}

func (SSO) GetSSOClientID() string {
	return GetEnv("SSO_CLIENT_ID", "")
}

func (SSO) GetSSOClientSecret() string {
	return GetEnv("SSO_CLIENT_SECRET", "")
}

func (SSO) GetSSORedirectURL() string {
	return GetEnv("SSO_REDIRECT_URL", "")
}
