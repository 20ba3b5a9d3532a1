package jsonsafe

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvStrict expands $VAR and ${VAR} in path. A ${VAR} that is not set
// is an error; $$ yields a literal $.
func expandEnvStrict(path string) (string, error) {
	const dollarSentinel = "\x00JSONSAFE_DOLLAR\x00"
	path = strings.ReplaceAll(path, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	for _, match := range envVarPattern.FindAllStringSubmatch(path, -1) {
		if _, ok := os.LookupEnv(match[1]); !ok {
			missing[match[1]] = struct{}{}
		}
	}
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("missing environment variables: %s", strings.Join(keys, ", "))
	}

	path = os.ExpandEnv(path)
	return strings.ReplaceAll(path, dollarSentinel, "$"), nil
}
