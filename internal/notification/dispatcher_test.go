package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"leavedesk/internal/employee"
	"leavedesk/internal/notification"

	"github.com/stretchr/testify/assert"
)

type fakeDirectory struct {
	contactOfFn          func(ctx context.Context, employeeID int64) (employee.Contact, error)
	supervisorContactsFn func(ctx context.Context, employeeID int64) ([]employee.Contact, error)
}

func (f *fakeDirectory) ContactOf(ctx context.Context, employeeID int64) (employee.Contact, error) {
	if f.contactOfFn != nil {
		return f.contactOfFn(ctx, employeeID)
	}
	return employee.Contact{EmployeeID: employeeID, Code: "EMP010", Name: "Dewi", Email: "dewi@corp.test"}, nil
}

func (f *fakeDirectory) SupervisorContacts(ctx context.Context, employeeID int64) ([]employee.Contact, error) {
	if f.supervisorContactsFn != nil {
		return f.supervisorContactsFn(ctx, employeeID)
	}
	return nil, nil
}

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	failFor map[string]error
	sent    []sentMail
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return nil
}

func testApplication() notification.Application {
	return notification.Application{
		ID:         55,
		EmployeeID: 10,
		LeaveType:  "Annual",
		StartDate:  time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		TotalDays:  3,
		AppliedAt:  time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_DispatchRequested(t *testing.T) {
	ctx := context.Background()

	t.Run("success full fan-out plus applicant copy", func(t *testing.T) {
		directory := &fakeDirectory{
			supervisorContactsFn: func(ctx context.Context, employeeID int64) ([]employee.Contact, error) {
				return []employee.Contact{
					{EmployeeID: 2, Name: "Sari", Email: "sari@corp.test"},
					{EmployeeID: 3, Name: "Tono", Email: "tono@corp.test"},
				}, nil
			},
		}
		mailer := &fakeMailer{}
		d := notification.NewDispatcher(directory, mailer, "https://hr.corp.test")

		result, err := d.DispatchRequested(ctx, testApplication())

		assert.NoError(t, err)
		assert.Equal(t, 2, result.SuccessCount)
		assert.Equal(t, 2, result.TotalSupervisors)
		assert.Equal(t, []string{"sari@corp.test", "tono@corp.test"}, result.SentTo)
		assert.Empty(t, result.Errors)

		// two supervisor notifications and one applicant confirmation
		assert.Len(t, mailer.sent, 3)
		assert.Equal(t, "dewi@corp.test", mailer.sent[2].to)
		assert.Contains(t, mailer.sent[0].subject, "#55")
	})

	t.Run("one bad address does not block the rest", func(t *testing.T) {
		directory := &fakeDirectory{
			supervisorContactsFn: func(ctx context.Context, employeeID int64) ([]employee.Contact, error) {
				return []employee.Contact{
					{EmployeeID: 2, Name: "Sari", Email: "sari@corp.test"},
					{EmployeeID: 3, Name: "Tono", Email: "broken address"},
					{EmployeeID: 4, Name: "Rina", Email: "rina@corp.test"},
				}, nil
			},
		}
		mailer := &fakeMailer{}
		d := notification.NewDispatcher(directory, mailer, "https://hr.corp.test")

		result, err := d.DispatchRequested(ctx, testApplication())

		assert.NoError(t, err)
		assert.Equal(t, 2, result.SuccessCount)
		assert.Equal(t, 3, result.TotalSupervisors)
		assert.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "invalid email address")
	})

	t.Run("delivery failure recorded, applicant copy still attempted", func(t *testing.T) {
		directory := &fakeDirectory{
			supervisorContactsFn: func(ctx context.Context, employeeID int64) ([]employee.Contact, error) {
				return []employee.Contact{
					{EmployeeID: 2, Name: "Sari", Email: "sari@corp.test"},
					{EmployeeID: 3, Name: "Tono", Email: "tono@corp.test"},
				}, nil
			},
		}
		mailer := &fakeMailer{
			failFor: map[string]error{"tono@corp.test": errors.New("smtp timeout")},
		}
		d := notification.NewDispatcher(directory, mailer, "https://hr.corp.test")

		result, err := d.DispatchRequested(ctx, testApplication())

		assert.NoError(t, err)
		assert.Equal(t, 1, result.SuccessCount)
		assert.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "tono@corp.test")

		assert.Len(t, mailer.sent, 2)
		assert.Equal(t, "dewi@corp.test", mailer.sent[1].to)
	})

	t.Run("no supervisors still confirms to applicant", func(t *testing.T) {
		mailer := &fakeMailer{}
		d := notification.NewDispatcher(&fakeDirectory{}, mailer, "https://hr.corp.test")

		result, err := d.DispatchRequested(ctx, testApplication())

		assert.NoError(t, err)
		assert.Zero(t, result.SuccessCount)
		assert.Zero(t, result.TotalSupervisors)
		assert.Len(t, mailer.sent, 1)
	})

	t.Run("negative directory failure is fatal", func(t *testing.T) {
		directory := &fakeDirectory{
			supervisorContactsFn: func(ctx context.Context, employeeID int64) ([]employee.Contact, error) {
				return nil, errors.New("db down")
			},
		}
		mailer := &fakeMailer{}
		d := notification.NewDispatcher(directory, mailer, "https://hr.corp.test")

		_, err := d.DispatchRequested(ctx, testApplication())

		assert.Error(t, err)
		assert.Empty(t, mailer.sent)
	})

	t.Run("applicant without address skips only the confirmation", func(t *testing.T) {
		directory := &fakeDirectory{
			contactOfFn: func(ctx context.Context, employeeID int64) (employee.Contact, error) {
				return employee.Contact{EmployeeID: employeeID, Name: "Dewi"}, nil
			},
			supervisorContactsFn: func(ctx context.Context, employeeID int64) ([]employee.Contact, error) {
				return []employee.Contact{
					{EmployeeID: 2, Name: "Sari", Email: "sari@corp.test"},
				}, nil
			},
		}
		mailer := &fakeMailer{}
		d := notification.NewDispatcher(directory, mailer, "https://hr.corp.test")

		result, err := d.DispatchRequested(ctx, testApplication())

		assert.NoError(t, err)
		assert.Equal(t, 1, result.SuccessCount)
		assert.Len(t, mailer.sent, 1)
	})
}
