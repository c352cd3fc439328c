// internal/mailer/templates_test.go
package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/notify"
)

func TestSalutation(t *testing.T) {
	tests := []struct {
		name      string
		applicant *models.Applicant
		expected  string
	}{
		{
			"male",
			&models.Applicant{Gender: models.GenderMale, FirstName: "Ivan", LastName: "Petrov"},
			"Sehr geehrter Herr Petrov",
		},
		{
			"female",
			&models.Applicant{Gender: models.GenderFemale, FirstName: "Ana", LastName: "Petrova"},
			"Sehr geehrte Frau Petrova",
		},
		{
			"unspecified",
			&models.Applicant{FirstName: "Sam", LastName: "Lee"},
			"Guten Tag Sam Lee",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Salutation(tt.applicant))
		})
	}
}

func TestRenderRejection(t *testing.T) {
	applicant := &models.Applicant{
		Gender:    models.GenderFemale,
		FirstName: "Ana",
		LastName:  "Petrova",
	}

	t.Run("company template with placeholders", func(t *testing.T) {
		company := &models.Company{
			Name:             "Hotel Adler",
			RejectionSubject: "Absage von {company_name}",
			RejectionBody:    "{salutation}, leider hat es nicht geklappt. {company_name}",
		}

		subject, body := RenderRejection(company, applicant)
		assert.Equal(t, "Absage von Hotel Adler", subject)
		assert.Equal(t, "Sehr geehrte Frau Petrova, leider hat es nicht geklappt. Hotel Adler", body)
	})

	t.Run("blank template falls back to default", func(t *testing.T) {
		company := &models.Company{Name: "Hotel Adler", RejectionSubject: "   ", RejectionBody: ""}

		subject, body := RenderRejection(company, applicant)
		assert.Equal(t, "Ihre Bewerbung bei Hotel Adler", subject)
		assert.Contains(t, body, "Sehr geehrte Frau Petrova,")
		assert.Contains(t, body, "Hotel Adler")
		assert.NotContains(t, body, "{")
	})
}

func TestCompanyActivatedMessage(t *testing.T) {
	msg := companyActivatedMessage(&models.Company{
		Name:  "Hotel Adler",
		Email: "info@hotel-adler.example",
	})
	assert.Equal(t, "info@hotel-adler.example", msg.To)
	assert.Equal(t, "Ihr Firmenkonto ist freigeschaltet", msg.Subject)
	assert.Contains(t, msg.Body, "Hotel Adler")
}

func TestInterviewProposedMessage(t *testing.T) {
	applicant := &models.Applicant{
		Gender:    models.GenderMale,
		FirstName: "Ivan",
		LastName:  "Petrov",
		Email:     "ivan@example.com",
	}
	second := time.Date(2026, 10, 6, 9, 0, 0, 0, time.UTC)
	iv := &models.Interview{
		ProposedDate1: time.Date(2026, 10, 5, 14, 30, 0, 0, time.UTC),
		ProposedDate2: &second,
		Location:      "Hauptstraße 1, Berlin",
		MeetingLink:   "https://meet.example.com/abc",
	}

	msg := interviewProposedMessage(applicant, iv, "Hotel Adler")
	assert.Equal(t, "ivan@example.com", msg.To)
	assert.Contains(t, msg.Body, "Sehr geehrter Herr Petrov")
	assert.Contains(t, msg.Body, "1) 05.10.2026 14:30")
	assert.Contains(t, msg.Body, "2) 06.10.2026 09:00")
	// the meeting link wins over the physical location
	assert.Contains(t, msg.Body, "https://meet.example.com/abc")
	assert.NotContains(t, msg.Body, "Hauptstraße")
}

func TestJobAlertMessage(t *testing.T) {
	msg := jobAlertMessage(notify.JobAlert{
		Email:       "ana@example.com",
		Name:        "Ana Petrova",
		JobTitle:    "Servicekraft",
		CompanyName: "Hotel Adler",
		Location:    "Berlin",
		Score:       92,
		JobURL:      "/jobs/servicekraft-berlin-42",
	})
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Servicekraft")
	assert.Contains(t, msg.Body, "92%")
	assert.Contains(t, msg.Body, "/jobs/servicekraft-berlin-42")
}
