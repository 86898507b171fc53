package models

import "strings"

// Parameter names looked up under the configured parameter store folder.
const (
	ParamMongoURI      = "MONGO_DB_URI"
	ParamMongoUser     = "MONGO_DB_USER"
	ParamMongoPassword = "MONGO_DB_PASSWORD"
)

// RequiredParameters lists every parameter a secret bundle must contain.
func RequiredParameters() []string {
	return []string{ParamMongoURI, ParamMongoUser, ParamMongoPassword}
}

// ParameterPath returns the full parameter store path for name under prefix.
func ParameterPath(prefix, name string) string {
	return "/" + strings.Trim(prefix, "/") + "/" + name
}

// ShortName returns the last path segment of a parameter store path.
func ShortName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// SecretBundle maps short parameter names to their decrypted values.
type SecretBundle map[string]string

// URI returns the database connection string.
func (b SecretBundle) URI() string {
	return b[ParamMongoURI]
}

// User returns the database username, possibly empty.
func (b SecretBundle) User() string {
	return b[ParamMongoUser]
}

// Password returns the database password, possibly empty.
func (b SecretBundle) Password() string {
	return b[ParamMongoPassword]
}

// Missing returns the required parameters absent from the bundle.
func (b SecretBundle) Missing() []string {
	var missing []string
	for _, name := range RequiredParameters() {
		if _, ok := b[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
