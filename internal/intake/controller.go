package intake

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/assessment"
	"github.com/spec-kit/support-intake/internal/domain"
	"github.com/spec-kit/support-intake/internal/proxydetect"
)

// Backend is what the controller needs from the server side.
type Backend interface {
	GenerateQuestions(ctx context.Context, notes string) ([]byte, error)
	WebhookURL(ctx context.Context) (string, error)
	PostTicket(ctx context.Context, webhookURL string, fields url.Values) error
}

type proxyChoice int

const (
	proxyUndecided proxyChoice = iota
	proxyConfirmed
	proxyDeclined
)

// Options customizes a Controller.
type Options struct {
	Detector     proxydetect.Detector
	Logger       *zap.Logger
	SubmissionID string
	AIReview     bool
	Launch       LaunchParams
	Now          func() time.Time
}

// Controller drives one ticket from editing to submission.
type Controller struct {
	mu sync.Mutex

	backend  Backend
	detector proxydetect.Detector
	logger   *zap.Logger
	now      func() time.Time

	state        State
	ticket       domain.Ticket
	aiReview     bool
	submissionID string

	// cycle increments on every Advance and Back; AI answers from an older cycle are dropped.
	cycle         uint64
	assessingFor  uint64
	assessment    *domain.AIAssessment
	aiFailed      bool
	answers       []string
	urgencyStatus string
	proxy         proxydetect.Result
	proxyChoice   proxyChoice
	proxyInfo     domain.ProxyInfo
}

// New builds a controller in the Editing state.
func New(backend Backend, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	detector := opts.Detector
	if detector == nil {
		detector = proxydetect.NewKeywordDetector(proxydetect.DefaultRules())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	id := opts.SubmissionID
	if id == "" {
		id = uuid.NewString()
	}
	return &Controller{
		backend:      backend,
		detector:     detector,
		logger:       logger,
		now:          now,
		state:        StateEditing,
		aiReview:     opts.AIReview,
		submissionID: id,
		ticket: domain.Ticket{
			ComputerName: opts.Launch.ComputerName,
			UserName:     opts.Launch.UserName,
		},
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubmissionID identifies this ticket for downstream deduplication.
func (c *Controller) SubmissionID() string {
	return c.submissionID
}

// Ticket returns a copy of the ticket fields.
func (c *Controller) Ticket() domain.Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticket
}

// AIReviewEnabled reports whether Advance will request an AI assessment.
func (c *Controller) AIReviewEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aiReview
}

// SetTicket replaces the editable fields. Launch identifiers are kept when
// the new ticket leaves them empty.
func (c *Controller) SetTicket(t domain.Ticket) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return fmt.Errorf("%w: edit in %s", ErrInvalidTransition, c.state)
	}
	if t.ComputerName == "" {
		t.ComputerName = c.ticket.ComputerName
	}
	if t.UserName == "" {
		t.UserName = c.ticket.UserName
	}
	c.ticket = t
	return nil
}

// SetAIReview toggles AI review while editing.
func (c *Controller) SetAIReview(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return fmt.Errorf("%w: toggle AI review in %s", ErrInvalidTransition, c.state)
	}
	c.aiReview = enabled
	return nil
}

// Advance validates the ticket and moves to Summary. With AI review off the
// default assessment is applied immediately; otherwise call Assess.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return fmt.Errorf("%w: advance from %s", ErrInvalidTransition, c.state)
	}
	if err := ValidateTicket(c.ticket); err != nil {
		return err
	}

	c.cycle++
	c.resetSummaryLocked()
	c.state = StateSummary
	if !c.aiReview {
		def := assessment.Default()
		c.assessment = &def
	}
	return nil
}

// Back returns to Editing and discards the assessment. Ticket fields are kept.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSummary {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, c.state)
	}
	c.cycle++
	c.resetSummaryLocked()
	c.state = StateEditing
	return nil
}

func (c *Controller) resetSummaryLocked() {
	c.assessment = nil
	c.aiFailed = false
	c.answers = nil
	c.urgencyStatus = ""
	c.proxy = proxydetect.Result{}
	c.proxyChoice = proxyUndecided
	c.proxyInfo = domain.ProxyInfo{}
}

// Assess requests the AI assessment for the current summary cycle. It issues
// at most one request per cycle. If the user goes back before the answer
// arrives, the answer is dropped and ErrStaleAssessment is returned. A failed
// request still leaves a default assessment in place so the ticket can be
// submitted; the error is returned for display.
func (c *Controller) Assess(ctx context.Context) (domain.AIAssessment, error) {
	c.mu.Lock()
	if c.state != StateSummary || !c.aiReview {
		c.mu.Unlock()
		return domain.AIAssessment{}, fmt.Errorf("%w: assess in %s", ErrInvalidTransition, c.state)
	}
	if c.assessingFor == c.cycle || c.assessment != nil {
		c.mu.Unlock()
		return domain.AIAssessment{}, ErrAssessmentInFlight
	}
	cycle := c.cycle
	c.assessingFor = cycle
	notes := c.ticket.Notes
	c.mu.Unlock()

	result, err := c.requestAssessment(ctx, notes)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cycle != cycle || c.state != StateSummary {
		c.logger.Info("discarding stale assessment", zap.Uint64("cycle", cycle), zap.Uint64("current", c.cycle))
		return domain.AIAssessment{}, ErrStaleAssessment
	}

	if err != nil {
		c.logger.Warn("AI questions unavailable", zap.Error(err))
		c.aiFailed = true
		fallback := assessment.Parse("")
		fallback.Warnings = nil
		result = fallback
	} else if len(result.Warnings) > 0 {
		c.logger.Warn("assessment fell back to defaults", zap.Strings("fields", result.Warnings))
	}

	c.assessment = &result
	c.answers = make([]string, len(result.Questions))
	c.proxy = c.detector.Detect(notes, result.Questions)
	if c.proxy.IsProxy {
		c.logger.Info("proxy submission suspected", zap.Strings("matched", c.proxy.Matched))
	}
	return result, err
}

func (c *Controller) requestAssessment(ctx context.Context, notes string) (domain.AIAssessment, error) {
	body, err := c.backend.GenerateQuestions(ctx, notes)
	if err != nil {
		return domain.AIAssessment{}, err
	}
	content, err := assessment.ExtractContent(body)
	if err != nil {
		return domain.AIAssessment{}, err
	}
	return assessment.Parse(content), nil
}

// Assessment returns the current assessment, if one is available.
func (c *Controller) Assessment() (domain.AIAssessment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.assessment == nil {
		return domain.AIAssessment{}, false
	}
	return *c.assessment, true
}

// ProxySuspected reports whether the heuristic wants the user asked about a proxy submission.
func (c *Controller) ProxySuspected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proxy.IsProxy
}

// SetAnswer records the answer to question i (zero-based).
func (c *Controller) SetAnswer(i int, answer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSummary {
		return fmt.Errorf("%w: answer in %s", ErrInvalidTransition, c.state)
	}
	if i < 0 || i >= len(c.answers) {
		return fmt.Errorf("question %d out of range", i+1)
	}
	c.answers[i] = answer
	return nil
}

// ConfirmUrgency accepts the assessed urgency.
func (c *Controller) ConfirmUrgency() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireAssessmentLocked("confirm urgency"); err != nil {
		return err
	}
	c.urgencyStatus = "Confirmed by user"
	return nil
}

// AdjustUrgency overrides the assessed level, keeping the original reason
// and an optional note from the user.
func (c *Controller) AdjustUrgency(level domain.UrgencyLevel, note string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireAssessmentLocked("adjust urgency"); err != nil {
		return err
	}
	normalized, ok := domain.ParseUrgency(string(level))
	if !ok {
		return fmt.Errorf("unknown urgency level %q", level)
	}

	reason := fmt.Sprintf("%s - User adjusted to %s", c.assessment.UrgencyReason, normalized)
	if note = strings.TrimSpace(note); note != "" {
		reason += ": " + note
	}
	c.assessment.UrgencyLevel = normalized
	c.assessment.UrgencyReason = reason
	c.urgencyStatus = "Adjusted by user to " + string(normalized)
	return nil
}

func (c *Controller) requireAssessmentLocked(action string) error {
	if c.state != StateSummary {
		return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, action, c.state)
	}
	if c.assessment == nil {
		return fmt.Errorf("%w: %s before assessment", ErrInvalidTransition, action)
	}
	return nil
}

// ConfirmProxy records the user's answer to "are you submitting for someone
// else?". Declining clears any impacted-user details.
func (c *Controller) ConfirmProxy(yes bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSummary {
		return fmt.Errorf("%w: confirm proxy in %s", ErrInvalidTransition, c.state)
	}
	if yes {
		c.proxyChoice = proxyConfirmed
		return nil
	}
	c.proxyChoice = proxyDeclined
	c.proxyInfo = domain.ProxyInfo{}
	return nil
}

// SetProxyInfo stores the impacted user's contact details after a confirmed proxy answer.
func (c *Controller) SetProxyInfo(info domain.ProxyInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSummary || c.proxyChoice != proxyConfirmed {
		return fmt.Errorf("%w: proxy details without confirmation", ErrInvalidTransition)
	}
	c.proxyInfo = info
	return nil
}

// Fields renders the hidden form fields posted to the webhook.
func (c *Controller) Fields() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldsLocked()
}

// Submit fetches the webhook URL and posts the ticket. On any failure the
// controller returns to Summary and the error is returned. Any HTTP
// response from the webhook counts as delivered.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateSummary {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, state)
	}
	if c.aiReview && c.assessment == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: assessment still pending", ErrInvalidTransition)
	}
	if c.proxyChoice == proxyConfirmed {
		if err := ValidateProxyInfo(c.proxyInfo); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.state = StateSubmitting
	c.ticket.SubmissionDate = c.now().UTC()
	fields := c.fieldsLocked()
	c.mu.Unlock()

	err := c.deliver(ctx, fields)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateSummary
		c.logger.Error("ticket submission failed", zap.String("submission_id", c.submissionID), zap.Error(err))
		return err
	}
	c.state = StateSubmitted
	c.logger.Info("ticket submitted", zap.String("submission_id", c.submissionID))
	return nil
}

func (c *Controller) deliver(ctx context.Context, fields url.Values) error {
	webhookURL, err := c.backend.WebhookURL(ctx)
	if err != nil {
		return fmt.Errorf("fetch webhook url: %w", err)
	}
	if strings.TrimSpace(webhookURL) == "" {
		return ErrNoWebhookURL
	}
	return c.backend.PostTicket(ctx, webhookURL, fields)
}
