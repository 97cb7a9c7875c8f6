package intake

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/support-intake/internal/assessment"
)

const (
	noQuestionsDisabled = "No AI questions generated - AI review disabled"
	noAnswersDisabled   = "No answers provided - AI review disabled"
	noQuestions         = "No AI questions generated"
	noAnswers           = "No answers provided"
	defaultUrgency      = "MEDIUM: " + assessment.DefaultUrgencyReason
)

func (c *Controller) fieldsLocked() url.Values {
	t := c.ticket
	v := url.Values{}
	v.Set("fullName", t.FullName)
	v.Set("companyName", t.CompanyName)
	v.Set("email", t.Email)
	v.Set("phone", t.Phone)
	v.Set("notes", t.Notes)
	v.Set("screenshotBase64", t.ScreenshotBase64)
	submitted := ""
	if !t.SubmissionDate.IsZero() {
		submitted = t.SubmissionDate.Format(time.RFC3339)
	}
	v.Set("submissionDate", submitted)
	v.Set("computerName", t.ComputerName)
	v.Set("userName", t.UserName)
	v.Set("submissionId", c.submissionID)
	v.Set("aiReviewEnabled", strconv.FormatBool(c.aiReview))
	v.Set("urgencyConfirmed", c.urgencyStatus)

	subject := assessment.DisabledSubject
	if c.assessment != nil {
		subject = c.assessment.Subject
	}
	v.Set("generatedSubject", subject)

	questions, answers, urgency := c.aiFieldsLocked()
	if c.proxyChoice == proxyConfirmed && c.proxyInfo.Complete() {
		questions += fmt.Sprintf("\n\nPROXY SUBMISSION - Impacted User: %s, Email: %s, Phone: %s",
			c.proxyInfo.ActualUserName, c.proxyInfo.ActualUserEmail, c.proxyInfo.ActualUserPhone)
	}
	v.Set("aiQuestions", questions)
	v.Set("aiAnswers", answers)
	v.Set("urgency", urgency)

	if c.aiReview {
		v.Set("aiReviewContent", strings.TrimSpace(t.Notes))
	} else {
		v.Set("aiReviewContent", "")
	}

	v.Set("actualUserName", c.proxyInfo.ActualUserName)
	v.Set("actualUserEmail", c.proxyInfo.ActualUserEmail)
	v.Set("actualUserPhone", c.proxyInfo.ActualUserPhone)
	return v
}

func (c *Controller) aiFieldsLocked() (questions, answers, urgency string) {
	if !c.aiReview {
		return noQuestionsDisabled, noAnswersDisabled, defaultUrgency
	}
	if c.assessment == nil || len(c.assessment.Questions) == 0 {
		urgency = defaultUrgency
		if c.assessment != nil && !c.aiFailed {
			urgency = c.assessment.UrgencyField()
		}
		return noQuestions, noAnswers, urgency
	}

	lines := make([]string, 0, len(c.answers))
	for i, answer := range c.answers {
		if answer = strings.TrimSpace(answer); answer != "" {
			lines = append(lines, fmt.Sprintf("Question %d: %s", i+1, answer))
		}
	}
	return strings.Join(c.assessment.Questions, "\n"), strings.Join(lines, "\n"), c.assessment.UrgencyField()
}
