package notifier

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/tlaurent/agendawatch/internal/event"
)

// formatAlert renders the plain-text alert used by the dry-run notifier and
// the text part of the email.
func formatAlert(ev *event.Matched) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New event: %s - %s\n", ev.Title, ev.Date)
	if ev.OriginalTitle != "" && ev.OriginalTitle != ev.Title {
		fmt.Fprintf(&b, "Original title: %s\n", ev.OriginalTitle)
	}
	if ev.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", ev.Description)
	}
	fmt.Fprintf(&b, "\nLink: %s\n", ev.Link)
	if len(ev.MatchingTerms) > 1 {
		fmt.Fprintf(&b, "Matched terms: %s\n", strings.Join(ev.MatchingTerms, ", "))
	}
	if ev.FoundAt != "" {
		fmt.Fprintf(&b, "Found at %s\n", ev.FoundAt)
	}
	return b.String()
}

func emailSubject(ev *event.Matched) string {
	return fmt.Sprintf("New Event Alert: %s - %s", ev.Title, ev.Date)
}

// emailHTML renders the HTML part of the alert email. When organizer is
// non-empty the body carries two registration buttons, one opening an
// HTML-formatted draft for desktop clients and one a plain draft for mobile.
func emailHTML(ev *event.Matched, organizer string, contact Contact) string {
	var b strings.Builder

	b.WriteString(`<html><body style="font-family: Arial, sans-serif; line-height: 1.6; max-width: 650px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; border-left: 4px solid #5c85d6;">`)
	b.WriteString(`<h1 style="color: #3c4043; margin-top: 0;">New Event Found!</h1>`)
	fmt.Fprintf(&b, `<h2 style="color: #5c85d6;">%s - %s</h2>`,
		html.EscapeString(ev.Title), html.EscapeString(ev.Date))

	b.WriteString(`<div style="background-color: #ffffff; padding: 15px; border-radius: 4px; margin: 15px 0;">`)
	fmt.Fprintf(&b, `<p><strong>&#128197; Date:</strong> %s</p>`, html.EscapeString(ev.Date))
	if ev.OriginalTitle != "" && ev.OriginalTitle != ev.Title {
		fmt.Fprintf(&b, `<p><strong>&#128221; Original Title:</strong> %s</p>`, html.EscapeString(ev.OriginalTitle))
	}
	if len(ev.MatchingTerms) > 1 {
		fmt.Fprintf(&b, `<p><strong>&#128269; Matched terms:</strong> %s</p>`,
			html.EscapeString(strings.Join(ev.MatchingTerms, ", ")))
	}
	info := strings.ReplaceAll(html.EscapeString(ev.Description), "\n", "<br>")
	fmt.Fprintf(&b, `<div style="margin-top: 15px;"><strong>&#128203; Event Details:</strong><br><div style="margin-top: 10px; padding-left: 10px; border-left: 2px solid #eee;">%s</div></div>`, info)
	fmt.Fprintf(&b, `<p style="margin-top: 15px;"><strong>&#128279; Link:</strong> <a href="%s" style="color: #003092;">%s</a></p>`,
		ev.Link, html.EscapeString(ev.Link))

	if organizer != "" {
		desktop := registrationMailto(organizer, ev, contact, true)
		mobile := registrationMailto(organizer, ev, contact, false)
		b.WriteString(`<div style="margin-top: 20px; text-align: center;">`)
		fmt.Fprintf(&b, `<div style="margin-bottom: 10px;"><a href="%s" style="display: inline-block; background-color: #AC1754; color: white; padding: 10px 20px; text-decoration: none; border-radius: 4px; font-weight: bold;">&#128187; S'inscrire (Ordinateur)</a></div>`, desktop)
		fmt.Fprintf(&b, `<div><a href="%s" style="display: inline-block; background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 4px; font-weight: bold;">&#128241; S'inscrire (Mobile)</a></div>`, mobile)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">`)
	fmt.Fprintf(&b, `<p style="color: #666; font-size: 0.9em;">This alert was generated at %s</p>`, html.EscapeString(ev.FoundAt))
	b.WriteString(`</div>`)

	if organizer != "" {
		b.WriteString(`<div style="margin-top: 20px; background-color: #e8f0fe; padding: 15px; border-radius: 8px;">`)
		b.WriteString(`<h3 style="color: #1a73e8; margin-top: 0;">Event Registration Information</h3>`)
		fmt.Fprintf(&b, `<p>The "S'inscrire" buttons open a new email to <strong>%s</strong> with prefilled information about the event. You can edit it before sending.</p>`, html.EscapeString(organizer))
		b.WriteString(`<p><strong>Desktop vs Mobile:</strong> the desktop button creates an HTML-formatted draft, the mobile one a plain-text draft that works better on some devices.</p>`)
		b.WriteString(`</div>`)
	}

	b.WriteString(`</body></html>`)
	return b.String()
}

// registrationMailto builds a mailto link to the organizer with a prefilled
// signup subject and body.
func registrationMailto(organizer string, ev *event.Matched, contact Contact, htmlBody bool) string {
	subject := fmt.Sprintf("Inscription: %s - %s", ev.Title, ev.Date)

	phone := ""
	if contact.Phone != "" {
		phone = "Téléphone: " + contact.Phone
	}

	if htmlBody {
		body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<p>Bonjour,</p>
<p>Je souhaite m'inscrire à l'<strong>%s</strong> du <strong>%s</strong>.</p>
<p>Merci d'avance.</p>
<p>Sincères Salutations,<br><br><strong>%s</strong><br>%s</p>
</body></html>`, html.EscapeString(ev.Title), html.EscapeString(ev.Date), html.EscapeString(contact.Name), html.EscapeString(phone))
		return fmt.Sprintf("mailto:%s?subject=%s&body=%s&content-type=text/html",
			organizer, quote(subject), quote(body))
	}

	body := fmt.Sprintf("Bonjour,\n\nJe souhaite m'inscrire à l'%s du %s.\n\nMerci d'avance.\n\nSincères Salutations,\n%s\n%s\n",
		ev.Title, ev.Date, contact.Name, phone)
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", organizer, quote(subject), quote(body))
}

// telegramMessage renders the HTML-mode Telegram alert. The Bot API caps
// messages at 4096 characters.
func telegramMessage(ev *event.Matched) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📣 <b>%s</b> - %s\n", html.EscapeString(ev.Title), html.EscapeString(ev.Date))
	if ev.OriginalTitle != "" && ev.OriginalTitle != ev.Title {
		fmt.Fprintf(&b, "\n%s\n", html.EscapeString(ev.OriginalTitle))
	}
	if ev.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", html.EscapeString(ev.Description))
	}
	fmt.Fprintf(&b, "\n🔗 %s", ev.Link)

	msg := b.String()
	if len(msg) > 4096 {
		msg = msg[:4093] + "..."
	}
	return msg
}

// quote percent-encodes a string for use inside a mailto URL. QueryEscape
// emits "+" for spaces, which mail clients do not decode.
func quote(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
