package dialog

// Fixed reply templates. All user-visible text comes from these; no raw
// technical errors ever reach the chat.
const (
	greetingText = "Hello! I am an intake assistant focused on debts and potential personal bankruptcy. " +
		"I do not provide legal advice. I will ask a few questions and pass the information to a lawyer. " +
		"Please briefly describe your situation with debts."

	caseDescriptionRetry = "Please describe your situation with debts in a few words (e.g., missed payments, calls from lenders)."
	debtDetailsPrompt    = "Thanks for sharing. What kind of debts are involved (consumer loan, credit card, mortgage, microloan)?"
	debtDetailsRetry     = "Which debts are we talking about? Any overdue payments or collector activity?"
	cityPrompt           = "Got it. Which city or region are you in?"
	cityRetry            = "Please share your city or region."
	docsPrompt           = "Do you have any documents (agreements, court decisions, bank letters, receipts)?"
	docsRetry            = "Let me know if you have any documents such as contracts, court letters, or receipts."
	contactsPrompt       = "Please share your name and the best way to contact you (phone, Telegram handle, messenger)."
	contactsRetry        = "I need a name and a contact method (phone, @handle, messenger) to pass to the lawyer."

	confirmationRetry = "Noted. If something needs correcting, share it here. " +
		"When ready, reply 'yes' to confirm sending to a lawyer."

	confirmedClosing = "Thank you. I have forwarded the details to a lawyer. They will reach out to you soon."
	notedClosing     = "I noted your remarks and will pass the current information to a lawyer. They will clarify details directly."
	limitClosing     = "We have reached the limit of questions for now. I will forward what we collected."
	wrapUpClosing    = "Let's wrap up here. I'll forward the information I have."

	moveForwardNotice   = "I'll move forward with what we have. "
	noContactsNotice    = "I'll move forward even without contacts. "
	confirmationPreface = "Here is a short summary of your case:\n"
	confirmationSuffix  = "\nPlease confirm if this is correct (yes/ok) or share corrections."
)
