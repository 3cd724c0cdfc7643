package notification

import (
	"context"
	"fmt"
	"time"

	"leavedesk/internal/employee"

	"go.uber.org/zap"
)

// Application is the dispatcher's view of a freshly created leave
// application. The leave service hands it over after the creating write
// committed, so dispatch can never observe an unpersisted row.
type Application struct {
	ID          int64
	EmployeeID  int64
	LeaveType   string
	StartDate   time.Time
	EndDate     time.Time
	TotalDays   float64
	AppliedAt   time.Time
}

// Directory resolves people to contacts. Implemented by the employee
// service.
type Directory interface {
	ContactOf(ctx context.Context, employeeID int64) (employee.Contact, error)
	SupervisorContacts(ctx context.Context, employeeID int64) ([]employee.Contact, error)
}

// DispatchResult reports the fan-out outcome. Delivery failures live in
// Errors; they never fail the dispatch call itself.
type DispatchResult struct {
	SuccessCount     int      `json:"success_count"`
	TotalSupervisors int      `json:"total_supervisors"`
	SentTo           []string `json:"sent_to,omitempty"`
	Errors           []string `json:"errors,omitempty"`
}

//go:generate mockgen -source=dispatcher.go -destination=mock/dispatcher_mock.go -package=mock
type Dispatcher interface {
	DispatchRequested(ctx context.Context, app Application) (DispatchResult, error)
}

type dispatcher struct {
	directory Directory
	mailer    Mailer
	baseURL   string
	logger    *zap.Logger
}

func NewDispatcher(directory Directory, mailer Mailer, baseURL string, logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &dispatcher{
		directory: directory,
		mailer:    mailer,
		baseURL:   baseURL,
		logger:    l,
	}
}

// DispatchRequested notifies the applicant's supervisors about a new
// application and then sends the applicant a confirmation copy. Each
// delivery is attempted independently; a failed address never blocks the
// others, and the applicant copy is attempted regardless of the
// supervisor outcomes.
func (d *dispatcher) DispatchRequested(ctx context.Context, app Application) (DispatchResult, error) {
	applicant, err := d.directory.ContactOf(ctx, app.EmployeeID)
	if err != nil {
		return DispatchResult{}, err
	}

	contacts, err := d.directory.SupervisorContacts(ctx, app.EmployeeID)
	if err != nil {
		return DispatchResult{}, err
	}

	plan := BuildRecipientPlan(contacts)
	msg := renderRequestedMessage(app, applicant, d.baseURL)

	result := DispatchResult{
		TotalSupervisors: len(contacts),
		Errors:           append([]string(nil), plan.Skipped...),
	}

	for _, rcpt := range plan.Supervisors {
		if err := d.mailer.Send(ctx, rcpt.Address, msg.subject, msg.htmlBody, msg.textBody); err != nil {
			d.logger.Warn("supervisor notification failed",
				zap.Int64("application_id", app.ID),
				zap.String("address", rcpt.Address),
				zap.Error(err),
			)
			result.Errors = append(result.Errors,
				fmt.Sprintf("delivery to %s failed: %v", rcpt.Address, err))
			continue
		}
		result.SuccessCount++
		result.SentTo = append(result.SentTo, rcpt.Address)
	}

	// Applicant confirmation is best-effort and independent of the
	// supervisor fan-out outcome.
	if addr, ok := validAddress(applicant); ok {
		confirm := renderConfirmationMessage(app, applicant, d.baseURL)
		if err := d.mailer.Send(ctx, addr, confirm.subject, confirm.htmlBody, confirm.textBody); err != nil {
			d.logger.Warn("applicant confirmation failed",
				zap.Int64("application_id", app.ID),
				zap.String("address", addr),
				zap.Error(err),
			)
		}
	}

	d.logger.Info("leave notification dispatched",
		zap.Int64("application_id", app.ID),
		zap.Int("success", result.SuccessCount),
		zap.Int("supervisors", result.TotalSupervisors),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

type message struct {
	subject  string
	htmlBody string
	textBody string
}

func renderRequestedMessage(app Application, applicant employee.Contact, baseURL string) message {
	link := fmt.Sprintf("%s/leaves/%d/approvals", baseURL, app.ID)
	dateRange := fmt.Sprintf("%s to %s",
		app.StartDate.Format("2006-01-02"), app.EndDate.Format("2006-01-02"))

	subject := fmt.Sprintf("Leave request #%d from %s (%s)", app.ID, applicant.Name, applicant.Code)

	htmlBody := fmt.Sprintf(
		`<p>%s (%s) has requested <strong>%s</strong> leave.</p>
<ul>
<li>Period: %s</li>
<li>Days: %.1f</li>
<li>Applied: %s</li>
</ul>
<p><a href="%s">Review the request</a></p>`,
		applicant.Name, applicant.Code, app.LeaveType,
		dateRange, app.TotalDays, app.AppliedAt.Format(time.RFC3339), link,
	)

	textBody := fmt.Sprintf(
		"%s (%s) has requested %s leave.\nPeriod: %s\nDays: %.1f\nApplied: %s\nReview: %s\n",
		applicant.Name, applicant.Code, app.LeaveType,
		dateRange, app.TotalDays, app.AppliedAt.Format(time.RFC3339), link,
	)

	return message{subject: subject, htmlBody: htmlBody, textBody: textBody}
}

func renderConfirmationMessage(app Application, applicant employee.Contact, baseURL string) message {
	link := fmt.Sprintf("%s/leaves/%d", baseURL, app.ID)

	subject := fmt.Sprintf("Your leave request #%d was submitted", app.ID)

	htmlBody := fmt.Sprintf(
		`<p>Hi %s, your %s leave request for %s to %s (%.1f days) was submitted and is awaiting approval.</p>
<p><a href="%s">Track its status</a></p>`,
		applicant.Name, app.LeaveType,
		app.StartDate.Format("2006-01-02"), app.EndDate.Format("2006-01-02"),
		app.TotalDays, link,
	)

	textBody := fmt.Sprintf(
		"Hi %s, your %s leave request for %s to %s (%.1f days) was submitted and is awaiting approval.\nTrack: %s\n",
		applicant.Name, app.LeaveType,
		app.StartDate.Format("2006-01-02"), app.EndDate.Format("2006-01-02"),
		app.TotalDays, link,
	)

	return message{subject: subject, htmlBody: htmlBody, textBody: textBody}
}
