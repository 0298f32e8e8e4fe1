package payment

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"
)

// signedFields is the ordered field list Telr chains into tran_check.
var signedFields = []string{
	"tran_store", "tran_type", "tran_class", "tran_test", "tran_ref",
	"tran_prevref", "tran_firstref", "tran_order", "tran_currency",
	"tran_amount", "tran_cartid", "tran_desc", "tran_status",
	"tran_authcode", "tran_authmessage",
}

// VerifySignature checks the webhook's tran_check: SHA1 over the secret and
// the trimmed signed fields joined by colons.
func VerifySignature(secret string, form url.Values) bool {
	provided := form.Get("tran_check")
	if provided == "" {
		return false
	}
	return strings.EqualFold(Sign(secret, form), provided)
}

// Sign computes the tran_check value for a form. Exported so tests and the
// sandbox tooling can forge valid callbacks.
func Sign(secret string, form url.Values) string {
	parts := []string{secret}
	for _, f := range signedFields {
		parts = append(parts, strings.TrimSpace(form.Get(f)))
	}
	h := sha1.New()
	h.Write([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(h.Sum(nil))
}
