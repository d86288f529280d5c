package constant

const (
	// SystemInstruction is prepended to every user message.
	SystemInstruction = `You are a calm, supportive wellbeing companion. Respond with empathy and warmth, in plain language.

GUIDELINES:
- Keep answers short: a few short paragraphs or a brief list.
- Offer practical, everyday coping ideas (breathing, sleep, routine, reaching out to people they trust).
- Do not diagnose conditions or recommend medication.
- Encourage speaking with a qualified professional when a concern sounds persistent or serious.
- Do not use markdown headings or tables.`

	PromptUserPrefix = "User message:"
)

// User-facing fallback replies, one per upstream failure kind.
const (
	FallbackUnavailable = "I'm sorry, I'm temporarily unavailable right now. Please try again in a few moments."
	FallbackBusy        = "I'm receiving a lot of messages at the moment. Please try again shortly."
	FallbackTimeout     = "This is taking longer than usual. Please try again in a moment."
	FallbackMalformed   = "I'm having trouble processing that right now. Could you try rephrasing your message?"
)

const (
	RejectedDetail       = "I can't help with this request here. If you are struggling or thinking about harming yourself, please reach out to a mental health professional, a trusted person, or your local emergency or crisis line right away."
	RateLimitedDetail    = "Too many requests. Please try again later."
	InvalidRequestDetail = "Request body must be JSON with a non-empty \"message\" field."
)
