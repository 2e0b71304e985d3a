package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// WebhookHMACHeader carries the base64 signature of a webhook body.
const WebhookHMACHeader = "X-Shopify-Hmac-Sha256"

// VerifyCallback checks the hmac parameter Shopify adds to OAuth callbacks
// and app proxy launches. The message is every other parameter, sorted by
// key and joined as k=v pairs with "&".
func VerifyCallback(query url.Values, secret string) error {
	provided := strings.ToLower(strings.TrimSpace(query.Get("hmac")))
	if provided == "" {
		return authError("callback is missing the hmac parameter", nil)
	}
	if secret == "" {
		return validationError("app api-secret is required", nil)
	}

	keys := make([]string, 0, len(query))
	for key := range query {
		if key == "hmac" || key == "signature" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+strings.Join(query[key], ","))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(strings.Join(parts, "&")))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return authError("invalid callback hmac", nil)
	}
	return nil
}

// VerifyWebhook checks the X-Shopify-Hmac-Sha256 header against body.
func VerifyWebhook(body []byte, signature string, secret string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return authError("webhook is missing the "+WebhookHMACHeader+" header", nil)
	}
	if secret == "" {
		return validationError("app api-secret is required", nil)
	}

	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return authError("webhook signature is not base64", err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), provided) {
		return authError("invalid webhook hmac", nil)
	}
	return nil
}
