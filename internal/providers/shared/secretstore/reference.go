package secretstore

import (
	"context"
	"strconv"
	"strings"
	"unicode"
)

// Getter reads one secret by key.
type Getter interface {
	Get(ctx context.Context, key string) (string, error)
}

// ParseReference recognizes {{secret "key"}} and {{secret key}}. The second
// result is false for plain values, which are returned unchanged by Resolve.
func ParseReference(value string) (string, bool, error) {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "{{") || !strings.HasSuffix(trimmed, "}}") {
		return "", false, nil
	}

	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, "{{"), "}}"))
	if !strings.HasPrefix(inner, "secret") {
		return "", false, nil
	}
	if len(inner) > len("secret") && !unicode.IsSpace(rune(inner[len("secret")])) {
		return "", false, nil
	}

	argument := strings.TrimSpace(strings.TrimPrefix(inner, "secret"))
	if argument == "" {
		return "", true, validationError("secret reference needs a key", nil)
	}
	if strings.HasPrefix(argument, "\"") {
		unquoted, err := strconv.Unquote(argument)
		if err != nil {
			return "", true, validationError("secret reference key is not a valid quoted string", err)
		}
		argument = unquoted
	} else if strings.ContainsAny(argument, " \t\r\n") {
		return "", true, validationError("secret reference key with spaces must be quoted", nil)
	}

	key, err := normalizeKey(argument)
	if err != nil {
		return "", true, err
	}
	return key, true, nil
}

// Reference renders the placeholder for key.
func Reference(key string) string {
	return "{{secret " + strconv.Quote(key) + "}}"
}

// Resolve replaces a reference with the stored value and leaves anything
// else untouched.
func Resolve(ctx context.Context, getter Getter, value string) (string, error) {
	key, isReference, err := ParseReference(value)
	if err != nil {
		return "", err
	}
	if !isReference {
		return value, nil
	}
	return getter.Get(ctx, key)
}
