package config

import (
	"os"
	"regexp"
)

// envRef matches ${NAME} references in config text.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// substituteEnvVars expands ${NAME} references that are set in the
// environment. Unset references are left as written.
func substituteEnvVars(content []byte) []byte {
	return envRef.ReplaceAllFunc(content, func(ref []byte) []byte {
		name := string(ref[2 : len(ref)-1])
		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		return ref
	})
}
