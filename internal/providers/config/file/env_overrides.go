package file

import (
	"fmt"
	"strings"
)

const (
	ContextEnvPrefix  = "SHOPCTL_CTX_"
	ContextEnvNameVar = ContextEnvPrefix + "NAME"
)

var contextEnvSuffixToKey = func() map[string]string {
	mapping := make(map[string]string, len(overrideKeys))
	for _, key := range overrideKeys {
		mapping[toEnvSuffix(key)] = key
	}
	return mapping
}()

func toEnvSuffix(key string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return strings.ToUpper(replacer.Replace(key))
}

// OverridesFromEnv maps SHOPCTL_CTX_<KEY> variables of environ to override
// keys, e.g. SHOPCTL_CTX_SHOP_DOMAIN to shop.domain. Unknown variables with
// the prefix are rejected so typos do not pass silently.
func OverridesFromEnv(environ []string) (map[string]string, error) {
	overrides := make(map[string]string)
	for _, entry := range environ {
		if !strings.HasPrefix(entry, ContextEnvPrefix) {
			continue
		}
		name, value, _ := strings.Cut(entry, "=")
		suffix := strings.TrimPrefix(name, ContextEnvPrefix)
		if suffix == "" || suffix == "NAME" {
			continue
		}
		key, ok := contextEnvSuffixToKey[suffix]
		if !ok {
			return nil, validationError(fmt.Sprintf("unsupported context override %q", name), nil)
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		overrides[key] = value
	}
	return overrides, nil
}
