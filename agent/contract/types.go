package contract

// Mode selects which model-turn executor handles the next cycle.
type Mode string

const (
	ModeAssistant Mode = "assistant"
	ModeQuiz      Mode = "quiz"
)

// SkinProfile is the closed result set of the diagnostic skin quiz.
// Labels are kept in Spanish because they travel through the prompts
// and the classify_skin_type tool unchanged.
type SkinProfile string

const (
	SkinDry    SkinProfile = "Piel seca"
	SkinNormal SkinProfile = "Piel normal"
	SkinOily   SkinProfile = "Piel grasa"
)

// ReplyFormat tells the transport how to render a reply. The first
// exchange of a session is tagged "initial" so the caller can attach
// a greeting image, every later exchange is "followup".
type ReplyFormat string

const (
	ReplyInitial  ReplyFormat = "initial"
	ReplyFollowup ReplyFormat = "followup"
)

// TurnResult is what ProcessTurn hands back to the transport.
type TurnResult struct {
	Reply  string      `json:"reply"`
	Format ReplyFormat `json:"format"`
}

// Escalation is a human-handoff notification ready for dispatch.
type Escalation struct {
	Recipient   string `json:"recipient"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	CallerPhone string `json:"caller_phone"`
}
