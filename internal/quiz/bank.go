package quiz

// Phishing scenario categories. Every campaign template and every quiz
// belongs to exactly one of these.
const (
	CategoryCredentialHarvesting = "credential_harvesting"
	CategoryMalware              = "malware"
	CategoryUrgentAction         = "urgent_action"
)

// Question is one entry in the fixed question bank
type Question struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"-"`
	Explanation  string   `json:"-"`
}

// DisplayQuestion is a question with the answer withheld, safe to hand to
// the quiz page
type DisplayQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// questionBank holds the fixed quiz content per scenario category
var questionBank = map[string][]Question{
	CategoryCredentialHarvesting: {
		{
			ID:     "q1",
			Prompt: "What should you do if you receive an unexpected email asking to verify your password?",
			Options: []string{
				"Click the link immediately to avoid account lockout",
				"Never click links in emails - go directly to the official website",
				"Reply with your password to confirm your identity",
				"Forward the email to someone else to handle",
			},
			CorrectIndex: 1,
			Explanation:  "Legitimate organizations never ask for passwords via email. Always navigate directly to the official website by typing the URL yourself.",
		},
		{
			ID:     "q2",
			Prompt: "Which of the following is a RED FLAG in a phishing email?",
			Options: []string{
				"Formal greeting with your correct name",
				"Urgent language and threats of account closure",
				"Professional company logo and formatting",
				"Request to update profile information through official website",
			},
			CorrectIndex: 1,
			Explanation:  "Urgent language and threats are common phishing tactics to create panic and bypass rational thinking.",
		},
		{
			ID:     "q3",
			Prompt: "What should you do before clicking any link in an email?",
			Options: []string{
				"Just click it - if it breaks something, IT will fix it",
				"Hover over the link to check if the URL matches the sender's domain",
				"Click it only if the email looks professional",
				"Wait for your colleague to click it first",
			},
			CorrectIndex: 1,
			Explanation:  "Hovering over links reveals the actual URL destination, which may differ from the displayed text in phishing emails.",
		},
		{
			ID:     "q4",
			Prompt: "You receive an email claiming to be from your bank asking to verify account details. What is the safest action?",
			Options: []string{
				"Call your bank using the number on your debit card",
				"Click the link to verify immediately",
				"Reply to the email with your account details",
				"Simply delete the email",
			},
			CorrectIndex: 0,
			Explanation:  "Contact the organization directly using official contact information to verify any requests.",
		},
		{
			ID:     "q5",
			Prompt: "Which email address is a RED FLAG for phishing?",
			Options: []string{
				"info@company.com",
				"support@company.com",
				"noreply@compny-supp0rt.com",
				"hr@company.com",
			},
			CorrectIndex: 2,
			Explanation:  "Misspelled domain names (compny instead of company, numbers replacing letters) are common in phishing attempts.",
		},
	},
	CategoryMalware: {
		{
			ID:     "q1",
			Prompt: "What is the safest approach to email attachments from unknown senders?",
			Options: []string{
				"Open them to see what they are",
				"Never open attachments from unknown senders without verification",
				"Only open if it's a .doc file",
				"Open if your antivirus is running",
			},
			CorrectIndex: 1,
			Explanation:  "Malware can be disguised in various file types. Always verify the sender's identity before opening attachments.",
		},
		{
			ID:     "q2",
			Prompt: "Which file type is SAFEST to receive as an attachment?",
			Options: []string{
				".exe files",
				".pdf files (if carefully verified)",
				".zip files",
				"All attachments are equally risky",
			},
			CorrectIndex: 1,
			Explanation:  "While PDFs are generally safer, they can still contain malware. Always verify the sender and use caution.",
		},
		{
			ID:     "q3",
			Prompt: "You receive an email with an attachment claiming to be an invoice. The sender is unknown. What should you do?",
			Options: []string{
				"Open it immediately",
				"Contact IT security before opening",
				"Ask a colleague if they sent it",
				"Delete it without opening",
			},
			CorrectIndex: 1,
			Explanation:  "When in doubt, contact IT security. They can verify the attachment's safety.",
		},
		{
			ID:     "q4",
			Prompt: "What is a macro and why is it a security concern?",
			Options: []string{
				"A keyboard shortcut - not a security concern",
				"Automated scripts that can perform actions - they can be malicious",
				"A type of virus that only affects old computers",
				"A setting in Microsoft Word",
			},
			CorrectIndex: 1,
			Explanation:  "Macros are programs that can perform unauthorized actions. Disable macro prompts and be cautious when enabling them.",
		},
		{
			ID:     "q5",
			Prompt: "What should you do if your computer starts acting strangely after opening an email attachment?",
			Options: []string{
				"Ignore it and hope it goes away",
				"Disconnect from the network and contact IT immediately",
				"Try to fix it yourself with downloaded tools",
				"Restart your computer and continue working",
			},
			CorrectIndex: 1,
			Explanation:  "Isolate your device immediately to prevent malware spread. Contact IT security right away.",
		},
	},
	CategoryUrgentAction: {
		{
			ID:     "q1",
			Prompt: "A CEO emails asking you to urgently process a wire transfer. What should you do?",
			Options: []string{
				"Process it immediately to avoid delaying business",
				"Verify the request through another official communication channel before processing",
				"Ask colleagues if they've received similar requests",
				"Process it since it's from the CEO",
			},
			CorrectIndex: 1,
			Explanation:  "Always verify urgent financial requests through established channels, even if they appear to come from leadership.",
		},
		{
			ID:     "q2",
			Prompt: "Which is a common psychological technique used in phishing attacks?",
			Options: []string{
				"Making requests very clear and transparent",
				"Giving you plenty of time to decide",
				"Creating urgency and fear to bypass careful thinking",
				"Being honest about the request's purpose",
			},
			CorrectIndex: 2,
			Explanation:  "Phishers create artificial urgency to pressure victims into bypassing security checks.",
		},
		{
			ID:     "q3",
			Prompt: "You receive an urgent email asking to confirm your login credentials due to \"suspicious activity.\" What is the red flag?",
			Options: []string{
				"The email is from IT",
				"The sender is urgent",
				"Legitimate companies never ask for passwords via email",
				"The email mentions suspicious activity",
			},
			CorrectIndex: 2,
			Explanation:  "No legitimate organization asks for passwords via email, regardless of the reason or urgency.",
		},
		{
			ID:     "q4",
			Prompt: "An email says your account will be closed in 24 hours if you don't take action. What should you do?",
			Options: []string{
				"Act immediately by clicking the link",
				"Contact the organization directly using contact info you find independently",
				"Wait 24 hours to see if your account is actually closed",
				"Forward the email to all colleagues",
			},
			CorrectIndex: 1,
			Explanation:  "Verify urgent threats independently. Legitimate organizations never shut down accounts without proper warning through verified channels.",
		},
		{
			ID:     "q5",
			Prompt: "What is the best defense against urgency-based phishing attacks?",
			Options: []string{
				"Work faster to respond quickly",
				"Take time to verify before acting, even under pressure",
				"Assume emails from authority figures are legitimate",
				"Only trust emails that sound urgent",
			},
			CorrectIndex: 1,
			Explanation:  "Pausing to verify information is the strongest defense against urgency-based social engineering.",
		},
	},
}

// Categories returns the recognized scenario categories
func Categories() []string {
	return []string{CategoryCredentialHarvesting, CategoryMalware, CategoryUrgentAction}
}

// ValidCategory reports whether category is one of the recognized three
func ValidCategory(category string) bool {
	_, ok := questionBank[category]
	return ok
}

// CorrectIndex returns the answer key entry for one question. Used by the
// demo seeder; handlers never expose it.
func CorrectIndex(category, questionID string) (int, bool) {
	bank, ok := questionBank[category]
	if !ok {
		return 0, false
	}
	for _, q := range bank {
		if q.ID == questionID {
			return q.CorrectIndex, true
		}
	}
	return 0, false
}

// QuestionsForDisplay returns the bank for a category with answers and
// explanations withheld
func QuestionsForDisplay(category string) ([]DisplayQuestion, error) {
	bank, ok := questionBank[category]
	if !ok {
		return nil, ErrUnknownCategory
	}

	display := make([]DisplayQuestion, 0, len(bank))
	for _, q := range bank {
		display = append(display, DisplayQuestion{
			ID:      q.ID,
			Prompt:  q.Prompt,
			Options: q.Options,
		})
	}
	return display, nil
}
