package subscription

// emailCopy is the per-language text of one transactional email.
type emailCopy struct {
	Subject  string
	Title    string
	Greeting string
	Body     string
	CTAText  string
	Footer   string
}

func confirmCopy(lang, name string) emailCopy {
	if lang == "en" {
		return emailCopy{
			Subject:  "Welcome to Kuzamo! Please confirm your email",
			Title:    "Confirm Your Email",
			Greeting: "Hi " + name + ",",
			Body:     "We're excited to have you on board. Please confirm your email address to activate your access.",
			CTAText:  "Confirm Email",
			Footer:   "If you did not request this, you can safely ignore this email.",
		}
	}
	return emailCopy{
		Subject:  "Kuzamo'ya hoş geldiniz! Lütfen e-postanızı doğrulayın",
		Title:    "E-postanızı Doğrulayın",
		Greeting: "Merhaba " + name + ",",
		Body:     "Aramıza hoş geldiniz. Erişiminizi aktifleştirmek için lütfen e-posta adresinizi doğrulayın.",
		CTAText:  "E-postayı Doğrula",
		Footer:   "Bu talebi siz oluşturmadıysanız bu e-postayı yok sayabilirsiniz.",
	}
}

func welcomeCopy(lang, name string) emailCopy {
	if lang == "en" {
		return emailCopy{
			Subject:  "Email confirmed! Welcome to Kuzamo",
			Title:    "Email Confirmed",
			Greeting: "Hi " + name + ",",
			Body:     "Your email has been confirmed successfully. You've been added to our early access list. We'll notify you when Kuzamo is ready and you can start using it.",
			Footer:   "If this wasn't you, you can ignore this email.",
		}
	}
	return emailCopy{
		Subject:  "E-posta doğrulandı! Kuzamo'ya hoş geldiniz",
		Title:    "E-posta Doğrulandı",
		Greeting: "Merhaba " + name + ",",
		Body:     "E-posta adresiniz başarıyla doğrulandı. Erken erişim listesine eklendiniz. Kuzamo hazır olduğunda size haber vereceğiz ve kullanmaya başlayabileceksiniz.",
		Footer:   "Bu işlem size ait değilse e-postayı yok sayabilirsiniz.",
	}
}
