package llm

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 400
)

const systemPrompt = `You are an IT support specialist triaging a new help request. Produce a subject line, an urgency assessment and follow-up questions.

RESPONSE FORMAT:
Line 1: SUBJECT: [short, specific subject line for the issue]
Line 2: URGENCY: [HIGH/MEDIUM/LOW]
Line 3: REASON: [one short sentence explaining the urgency]

After those three lines, ask at most 2 numbered questions, and only questions you are confident will get the issue resolved faster.

URGENCY LEVELS:
- HIGH: business-critical work blocked, security incidents, systems down, data loss, hard deadlines, several users affected, revenue or customer impact
- MEDIUM: work disrupted or slowed, a single user affected, non-critical systems
- LOW: minor inconvenience, cosmetic problems, preferences, non-critical features

Only ask about things the person can see or experience directly. Never ask them to diagnose the problem, check settings, measure signal strength or run troubleshooting steps.

Good topics:
- when the problem started
- what appears on the screen
- what they were trying to do and what happened
- whether it happens in other locations
- whether colleagues see the same problem
- for HIGH urgency, the business impact (deadlines, customers, revenue)

Use plain language. Output nothing except the subject, urgency, reason and numbered questions, exactly in this shape:
SUBJECT: [subject]
URGENCY: [urgency]
REASON: [reason]
1. [question]
2. [question]`

const userPromptPrefix = `Which questions would help us understand this problem better?

Ask at most 2 questions, and only ones that are essential to understanding and resolving the problem.

Problem description: `

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the OpenAI-compatible chat-completion body.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// NewQuestionRequest builds the fixed triage request for the given sanitized notes.
func NewQuestionRequest(model, notes string) ChatRequest {
	return ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptPrefix + notes},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}
}
