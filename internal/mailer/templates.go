// internal/mailer/templates.go
package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/notify"
)

// Salutation derives the German greeting from name and gender.
func Salutation(a *models.Applicant) string {
	switch a.Gender {
	case models.GenderMale:
		return "Sehr geehrter Herr " + a.LastName
	case models.GenderFemale:
		return "Sehr geehrte Frau " + a.LastName
	}
	return "Guten Tag " + a.FullName()
}

// Default rejection template used when the company has none configured.
const (
	defaultRejectionSubject = "Ihre Bewerbung bei {company_name}"
	defaultRejectionBody    = "{salutation},\n\n" +
		"vielen Dank für Ihr Interesse und Ihre Bewerbung bei {company_name}.\n" +
		"Leider können wir Ihnen derzeit keine Stelle anbieten.\n\n" +
		"Wir wünschen Ihnen für Ihre weitere Suche alles Gute.\n\n" +
		"Mit freundlichen Grüßen\n{company_name}"
)

// RenderRejection fills the company's rejection template, falling back to the
// built-in one. Placeholders: {salutation}, {company_name}.
func RenderRejection(company *models.Company, applicant *models.Applicant) (subject, body string) {
	subject = company.RejectionSubject
	body = company.RejectionBody
	if strings.TrimSpace(subject) == "" {
		subject = defaultRejectionSubject
	}
	if strings.TrimSpace(body) == "" {
		body = defaultRejectionBody
	}

	replacer := strings.NewReplacer(
		"{salutation}", Salutation(applicant),
		"{company_name}", company.Name,
	)
	return replacer.Replace(subject), replacer.Replace(body)
}

func applicationReceivedMessage(applicant *models.Applicant, jobTitle string) Message {
	return Message{
		To:      applicant.Email,
		Subject: "Ihre Bewerbung ist eingegangen",
		Body: fmt.Sprintf("%s,\n\n"+
			"Ihre Bewerbung auf die Stelle %q ist bei uns eingegangen und wird geprüft.\n"+
			"Sie werden benachrichtigt, sobald sich der Status ändert.\n\n"+
			"Mit freundlichen Grüßen\nIhr IJP-Team",
			Salutation(applicant), jobTitle),
	}
}

func newApplicationMessage(companyEmail, applicantName, jobTitle string) Message {
	return Message{
		To:      companyEmail,
		Subject: "Neue Bewerbung: " + jobTitle,
		Body: fmt.Sprintf("Guten Tag,\n\n"+
			"für Ihre Stelle %q liegt eine neue geprüfte Bewerbung von %s vor.\n"+
			"Bitte sichten Sie die Unterlagen im Portal.\n\n"+
			"Mit freundlichen Grüßen\nIhr IJP-Team",
			jobTitle, applicantName),
	}
}

func companyActivatedMessage(company *models.Company) Message {
	return Message{
		To:      company.Email,
		Subject: "Ihr Firmenkonto ist freigeschaltet",
		Body: fmt.Sprintf("Guten Tag,\n\n"+
			"Ihr Firmenkonto für %s wurde freigeschaltet.\n"+
			"Sie können ab sofort Stellenanzeigen anlegen und Bewerbungen einsehen.\n\n"+
			"Mit freundlichen Grüßen\nIhr IJP-Team",
			company.Name),
	}
}

func jobActivatedMessage(companyEmail, jobTitle, jobURL string) Message {
	return Message{
		To:      companyEmail,
		Subject: "Ihre Stellenanzeige ist online: " + jobTitle,
		Body: fmt.Sprintf("Guten Tag,\n\n"+
			"Ihre Stellenanzeige %q ist ab sofort online erreichbar unter %s.\n\n"+
			"Mit freundlichen Grüßen\nIhr IJP-Team",
			jobTitle, jobURL),
	}
}

func jobAlertMessage(alert notify.JobAlert) Message {
	return Message{
		To:      alert.Email,
		Subject: "Neues Stellenangebot: " + alert.JobTitle,
		Body: fmt.Sprintf("Guten Tag %s,\n\n"+
			"wir haben ein neues Stellenangebot gefunden, das zu Ihrem Profil passt (Übereinstimmung: %d%%):\n\n"+
			"  %s\n  %s, %s\n\n"+
			"Details und Bewerbung: %s\n\n"+
			"Mit freundlichen Grüßen\nIhr IJP-Team",
			alert.Name, alert.Score, alert.JobTitle, alert.CompanyName, alert.Location, alert.JobURL),
	}
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

func interviewProposedMessage(applicant *models.Applicant, iv *models.Interview, companyName string) Message {
	var slots strings.Builder
	slots.WriteString("  1) " + formatDate(iv.ProposedDate1))
	if iv.ProposedDate2 != nil {
		slots.WriteString("\n  2) " + formatDate(*iv.ProposedDate2))
	}

	where := iv.Location
	if iv.MeetingLink != "" {
		where = iv.MeetingLink
	}
	return Message{
		To:      applicant.Email,
		Subject: "Einladung zum Vorstellungsgespräch",
		Body: fmt.Sprintf("%s,\n\n"+
			"%s lädt Sie zu einem Vorstellungsgespräch ein. Vorgeschlagene Termine:\n\n%s\n\n"+
			"Ort bzw. Link: %s\n\n"+
			"Bitte bestätigen Sie einen Termin im Portal oder schlagen Sie neue Termine vor.\n\n"+
			"Mit freundlichen Grüßen\nIhr IJP-Team",
			Salutation(applicant), companyName, slots.String(), where),
	}
}

func interviewConfirmedMessage(companyEmail, applicantName string, confirmed time.Time) Message {
	return Message{
		To:      companyEmail,
		Subject: "Gesprächstermin bestätigt",
		Body: fmt.Sprintf("Guten Tag,\n\n"+
			"%s hat den Gesprächstermin am %s bestätigt.\n\n"+
			"Mit freundlichen Grüßen\nIhr IJP-Team",
			applicantName, formatDate(confirmed)),
	}
}

func interviewDeclinedMessage(companyEmail, applicantName, reason string) Message {
	body := fmt.Sprintf("Guten Tag,\n\n"+
		"%s kann keinen der vorgeschlagenen Termine wahrnehmen.", applicantName)
	if reason != "" {
		body += "\nBegründung: " + reason
	}
	body += "\n\nBitte schlagen Sie neue Termine im Portal vor.\n\nMit freundlichen Grüßen\nIhr IJP-Team"
	return Message{
		To:      companyEmail,
		Subject: "Neue Gesprächstermine erforderlich",
		Body:    body,
	}
}

func interviewReminderMessage(applicant *models.Applicant, iv *models.Interview, companyName string) Message {
	when := iv.ProposedDate1
	if iv.ConfirmedDate != nil {
		when = *iv.ConfirmedDate
	}
	return Message{
		To:      applicant.Email,
		Subject: "Erinnerung: Vorstellungsgespräch am " + formatDate(when),
		Body: fmt.Sprintf("%s,\n\n"+
			"wir erinnern Sie an Ihr Vorstellungsgespräch mit %s am %s.\n\n"+
			"Mit freundlichen Grüßen\nIhr IJP-Team",
			Salutation(applicant), companyName, formatDate(when)),
	}
}
