package mail_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ceanlio/kuzamo/internal/pkg/mail"
)

func TestBuildBrandedEscapesUserText(t *testing.T) {
	html, err := mail.BuildBranded(mail.BrandedParams{
		Lang:     "en",
		Title:    "Confirm Your Email",
		Greeting: `Hi <script>alert("x")</script>,`,
		Body:     "Some body",
		Footer:   "Footer",
	})
	require.NoError(t, err)
	require.NotContains(t, html, "<script>")
	require.Contains(t, html, "&lt;script&gt;")
}

func TestBuildBrandedCTAIsOptional(t *testing.T) {
	withCTA, err := mail.BuildBranded(mail.BrandedParams{
		Lang:     "en",
		Title:    "t",
		Greeting: "g",
		Body:     "b",
		CTAText:  "Confirm Email",
		CTAURL:   "https://kuzamo.com/confirm-email.html?token=abc",
		Footer:   "f",
	})
	require.NoError(t, err)
	require.Contains(t, withCTA, "Confirm Email")
	require.Contains(t, withCTA, "https://kuzamo.com/confirm-email.html?token=abc")

	withoutCTA, err := mail.BuildBranded(mail.BrandedParams{
		Lang: "en", Title: "t", Greeting: "g", Body: "b", Footer: "f",
	})
	require.NoError(t, err)
	require.NotContains(t, withoutCTA, "Confirm Email")
}

func TestBuildBrandedUnsubscribeFooter(t *testing.T) {
	html, err := mail.BuildBranded(mail.BrandedParams{
		Lang:           "en",
		Title:          "t",
		Greeting:       "g",
		Body:           "b",
		Footer:         "f",
		UnsubscribeURL: "https://kuzamo.com/unsubscribe.html?token=xyz",
	})
	require.NoError(t, err)
	require.Contains(t, html, "Unsubscribe")
	require.Contains(t, html, "https://kuzamo.com/unsubscribe.html?token=xyz")
	require.Contains(t, html, "All rights reserved")

	trHTML, err := mail.BuildBranded(mail.BrandedParams{
		Lang: "tr", Title: "t", Greeting: "g", Body: "b", Footer: "f",
		UnsubscribeURL: "https://kuzamo.com/unsubscribe.html?token=xyz",
	})
	require.NoError(t, err)
	require.Contains(t, trHTML, "Abonelikten Çık")
	require.Contains(t, trHTML, "Tüm hakları saklıdır")
}
