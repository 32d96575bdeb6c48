package mail

import (
	"bytes"
	"html/template"
)

// BrandedParams describes one branded transactional email. User-supplied
// text (greeting carries the subscriber's name) is escaped by html/template
// during rendering.
type BrandedParams struct {
	Lang           string // "tr" | "en"
	Title          string
	Greeting       string
	Body           string
	CTAText        string // optional, rendered only with CTAURL
	CTAURL         string
	Footer         string
	UnsubscribeURL string // optional footer link
}

type brandedData struct {
	BrandedParams
	Copyright       string
	UnsubscribeText string
}

const brandedTplText = `<!DOCTYPE html><html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width"><title>{{.Title}}</title></head>
<body style="margin:0;padding:0;background:#f5f7ff;font-family:system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;color:#111827;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background:#f5f7ff;padding:32px 16px;">
    <tr>
      <td align="center">
        <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="max-width:600px;background:#ffffff;border-radius:16px;overflow:hidden;box-shadow:0 10px 25px rgba(0,0,0,0.08);">
          <tr>
            <td style="padding:24px 24px 0 24px;">
              <span style="display:inline-block;height:36px;width:36px;border-radius:8px;background:#4f46e5;color:#fff;font-weight:700;font-size:18px;line-height:36px;text-align:center;vertical-align:middle">K</span>
              <span style="display:inline-block;margin-left:10px;font-size:22px;font-weight:800;color:#4f46e5;vertical-align:middle">Kuzamo</span>
            </td>
          </tr>
          <tr>
            <td style="padding:24px 24px 0 24px;">
              <h1 style="margin:0 0 8px 0;font-size:24px;line-height:1.3">{{.Title}}</h1>
              <p style="margin:0 0 4px 0;color:#6b7280">{{.Greeting}}</p>
              <p style="margin:8px 0 16px 0;color:#6b7280">{{.Body}}</p>
              {{if and .CTAText .CTAURL}}<p><a href="{{.CTAURL}}" style="display:inline-block;padding:12px 18px;border-radius:10px;background:#4f46e5;color:#fff;text-decoration:none;font-weight:600">{{.CTAText}}</a></p>{{end}}
            </td>
          </tr>
          <tr>
            <td style="padding:8px 24px 24px 24px;color:#6b7280;font-size:13px">{{.Footer}}</td>
          </tr>
        </table>
        <div style="max-width:600px;margin-top:12px;color:#6b7280;font-size:12px;text-align:center">
          {{.Copyright}}
          {{if .UnsubscribeURL}}<p style="margin:16px 0 0 0;text-align:center;"><a href="{{.UnsubscribeURL}}" style="color:#6b7280;text-decoration:underline;font-size:12px">{{.UnsubscribeText}}</a></p>{{end}}
        </div>
      </td>
    </tr>
  </table>
</body></html>`

var brandedTpl = template.Must(template.New("branded").Parse(brandedTplText))

// BuildBranded renders the Kuzamo branded email document.
func BuildBranded(p BrandedParams) (string, error) {
	data := brandedData{BrandedParams: p}
	if p.Lang == "en" {
		data.Copyright = "© 2025 Kuzamo. All rights reserved."
		data.UnsubscribeText = "Unsubscribe"
	} else {
		data.Copyright = "© 2025 Kuzamo. Tüm hakları saklıdır."
		data.UnsubscribeText = "Abonelikten Çık"
	}

	var buf bytes.Buffer
	if err := brandedTpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
