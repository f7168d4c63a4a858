package vault

const (
	credentialsSeparatorConstant = ":"
	// Shorter passwords are masked only as part of the credentials token.
	minimumMaskedPasswordLengthConstant = 6
)

// ResolveCredentials returns the explicit credentials verbatim when present,
// otherwise username:password when both halves are present. Anything else
// yields ErrCredentialsMissing.
func ResolveCredentials(options Options) (string, error) {
	if len(options.Credentials) > 0 {
		return options.Credentials, nil
	}
	if len(options.Username) > 0 && len(options.Password) > 0 {
		return options.Username + credentialsSeparatorConstant + options.Password, nil
	}
	return "", ErrCredentialsMissing
}

// sensitiveValues lists what is masked in logs and errors: the whole credentials
// token, and the bare password when it reaches the minimum masked length.
func sensitiveValues(options Options, credentials string) []string {
	values := make([]string, 0, 2)
	if len(credentials) > 0 {
		values = append(values, credentials)
	}
	if len(options.Password) >= minimumMaskedPasswordLengthConstant && options.Password != credentials {
		values = append(values, options.Password)
	}
	return values
}
