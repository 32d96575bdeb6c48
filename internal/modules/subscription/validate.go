package subscription

import (
	"regexp"
	"strings"
)

const (
	maxEmailLen   = 254
	maxCompanyLen = 100
)

// Letters (including the Latin-1 accented ranges and Turkish characters),
// spaces, apostrophes and hyphens; 2 to 80 runes.
var nameRe = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿÇĞIİÖŞÜçğıiöşü' -]{2,80}$`)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var disposableDomains = map[string]struct{}{
	"mailinator.com":    {},
	"yopmail.com":       {},
	"tempmail.com":      {},
	"10minutemail.com":  {},
	"guerrillamail.com": {},
	"trashmail.com":     {},
	"fakeinbox.com":     {},
	"dispostable.com":   {},
	"getnada.com":       {},
	"sharklasers.com":   {},
}

func validName(name string) bool {
	return nameRe.MatchString(name)
}

func validEmail(email string) bool {
	return len(email) > 3 && len(email) <= maxEmailLen && emailRe.MatchString(email)
}

func isDisposableDomain(domain string) bool {
	_, ok := disposableDomains[domain]
	return ok
}

func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}

// normalizeLang collapses anything other than "en" to "tr".
func normalizeLang(lang string) string {
	if strings.ToLower(strings.TrimSpace(lang)) == "en" {
		return "en"
	}
	return "tr"
}
