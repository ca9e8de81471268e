package email

import "strings"

// trackingLinkPlaceholder is substituted with the per-enrollment tracking
// link when a simulation email is rendered
const trackingLinkPlaceholder = "{{TRACKING_LINK}}"

// recipientPlaceholder is substituted with the recipient address
const recipientPlaceholder = "{{RECIPIENT_EMAIL}}"

// Template is one fixed phishing simulation template. Campaigns copy the
// template's fields at creation time.
type Template struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PhishingType string `json:"phishing_type"`
	SenderName   string `json:"sender_name"`
	SenderEmail  string `json:"sender_email"`
	SubjectLine  string `json:"subject_line"`
	HTML         string `json:"-"`
}

var templates = []Template{
	{
		ID:           "it-password-reset",
		Name:         "IT Password Reset",
		PhishingType: "credential_harvesting",
		SenderName:   "IT Service Desk",
		SenderEmail:  "it-support@corp-servicedesk.com",
		SubjectLine:  "Action required: your password expires today",
		HTML: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2>Password Expiration Notice</h2>
		<p>Dear employee,</p>
		<p>Our records show the password for <strong>{{RECIPIENT_EMAIL}}</strong> expires today.
		To avoid losing access to your account, verify your credentials now.</p>
		<p style="margin: 24px 0;">
			<a href="{{TRACKING_LINK}}" style="background-color: #0066cc; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Verify Password</a>
		</p>
		<p>If you do not act within 24 hours your account will be locked.</p>
		<p>IT Service Desk</p>
	</div>
</body>
</html>`,
	},
	{
		ID:           "invoice-attachment",
		Name:         "Outstanding Invoice",
		PhishingType: "malware",
		SenderName:   "Accounts Receivable",
		SenderEmail:  "billing@invoice-notifications.net",
		SubjectLine:  "Invoice #38291 overdue - immediate review required",
		HTML: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2>Overdue Invoice</h2>
		<p>Hello,</p>
		<p>Invoice #38291 for your department is 30 days overdue. Please download and
		review the attached statement before end of business today.</p>
		<p style="margin: 24px 0;">
			<a href="{{TRACKING_LINK}}" style="background-color: #28a745; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Download Invoice</a>
		</p>
		<p>Regards,<br>Accounts Receivable</p>
	</div>
</body>
</html>`,
	},
	{
		ID:           "ceo-wire-transfer",
		Name:         "Urgent Request From Leadership",
		PhishingType: "urgent_action",
		SenderName:   "Office of the CEO",
		SenderEmail:  "ceo.office@corp-executive.com",
		SubjectLine:  "URGENT - need this handled in the next hour",
		HTML: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<p>I'm in back-to-back meetings and need your help with a time-sensitive
		payment before close of business. This must stay confidential for now.</p>
		<p style="margin: 24px 0;">
			<a href="{{TRACKING_LINK}}" style="background-color: #cc0000; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Review Payment Details</a>
		</p>
		<p>Handle this personally and confirm once done.</p>
	</div>
</body>
</html>`,
	},
}

// Templates returns the fixed phishing template set
func Templates() []Template {
	return templates
}

// TemplateByID returns a template by id
func TemplateByID(id string) (*Template, bool) {
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], true
		}
	}
	return nil, false
}

// RenderTemplate substitutes the tracking link and recipient address into
// a campaign's stored template HTML
func RenderTemplate(html, trackingLink, recipientEmail string) string {
	rendered := strings.ReplaceAll(html, trackingLinkPlaceholder, trackingLink)
	return strings.ReplaceAll(rendered, recipientPlaceholder, recipientEmail)
}
