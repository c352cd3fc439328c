package models

import (
	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
)

// ApplicationStatus is the lifecycle state of an Application.
type ApplicationStatus string

const (
	AppPending            ApplicationStatus = "pending"
	AppIJPReview          ApplicationStatus = "ijp_review"
	AppIJPApproved        ApplicationStatus = "ijp_approved"
	AppIJPRejected        ApplicationStatus = "ijp_rejected"
	AppSentToCompany      ApplicationStatus = "sent_to_company"
	AppCompanyReview      ApplicationStatus = "company_review"
	AppInterviewScheduled ApplicationStatus = "interview_scheduled"
	AppInterviewDone      ApplicationStatus = "interview_done"
	AppAccepted           ApplicationStatus = "accepted"
	AppRejected           ApplicationStatus = "rejected"
	AppWithdrawn          ApplicationStatus = "withdrawn"
	AppContractSent       ApplicationStatus = "contract_sent"
	AppContractSigned     ApplicationStatus = "contract_signed"
	AppCompleted          ApplicationStatus = "completed"
)

var allApplicationStatuses = map[ApplicationStatus]bool{
	AppPending: true, AppIJPReview: true, AppIJPApproved: true, AppIJPRejected: true,
	AppSentToCompany: true, AppCompanyReview: true, AppInterviewScheduled: true,
	AppInterviewDone: true, AppAccepted: true, AppRejected: true, AppWithdrawn: true,
	AppContractSent: true, AppContractSigned: true, AppCompleted: true,
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	if allApplicationStatuses[ApplicationStatus(s)] {
		return ApplicationStatus(s), nil
	}
	return "", apperrors.NewValidationError("application_status", "unknown status: "+s)
}

// JobRequestStatus is the lifecycle state of a JobRequest.
type JobRequestStatus string

const (
	JRPending            JobRequestStatus = "pending"
	JRIJPReview          JobRequestStatus = "ijp_review"
	JRIJPApproved        JobRequestStatus = "ijp_approved"
	JRIJPRejected        JobRequestStatus = "ijp_rejected"
	JRSearching          JobRequestStatus = "searching"
	JRMatched            JobRequestStatus = "matched"
	JRSentToCompany      JobRequestStatus = "sent_to_company"
	JRCompanyReview      JobRequestStatus = "company_review"
	JRInterviewScheduled JobRequestStatus = "interview_scheduled"
	JRInterviewDone      JobRequestStatus = "interview_done"
	JRAccepted           JobRequestStatus = "accepted"
	JRRejected           JobRequestStatus = "rejected"
	JRContractSent       JobRequestStatus = "contract_sent"
	JRContractSigned     JobRequestStatus = "contract_signed"
	JRPlaced             JobRequestStatus = "placed"
	JRCompleted          JobRequestStatus = "completed"
	JROnHold             JobRequestStatus = "on_hold"
	JRCancelled          JobRequestStatus = "cancelled"
	JRWithdrawn          JobRequestStatus = "withdrawn"
)

var allJobRequestStatuses = map[JobRequestStatus]bool{
	JRPending: true, JRIJPReview: true, JRIJPApproved: true, JRIJPRejected: true,
	JRSearching: true, JRMatched: true, JRSentToCompany: true, JRCompanyReview: true,
	JRInterviewScheduled: true, JRInterviewDone: true, JRAccepted: true, JRRejected: true,
	JRContractSent: true, JRContractSigned: true, JRPlaced: true, JRCompleted: true,
	JROnHold: true, JRCancelled: true, JRWithdrawn: true,
}

func ParseJobRequestStatus(s string) (JobRequestStatus, error) {
	if allJobRequestStatuses[JobRequestStatus(s)] {
		return JobRequestStatus(s), nil
	}
	return "", apperrors.NewValidationError("job_request_status", "unknown status: "+s)
}

// CompanyRequestStatus is the lifecycle state of a CompanyRequest.
type CompanyRequestStatus string

const (
	CRPending         CompanyRequestStatus = "pending"
	CRIJPReview       CompanyRequestStatus = "ijp_review"
	CRIJPAccepted     CompanyRequestStatus = "ijp_accepted"
	CRIJPRejected     CompanyRequestStatus = "ijp_rejected"
	CRInProgress      CompanyRequestStatus = "in_progress"
	CRCandidatesFound CompanyRequestStatus = "candidates_found"
	CRCandidatesSent  CompanyRequestStatus = "candidates_sent"
	CRCompanyReview   CompanyRequestStatus = "company_review"
	CRInterviews      CompanyRequestStatus = "interviews"
	CRCompleted       CompanyRequestStatus = "completed"
	CROnHold          CompanyRequestStatus = "on_hold"
	CRCancelled       CompanyRequestStatus = "cancelled"
)

var allCompanyRequestStatuses = map[CompanyRequestStatus]bool{
	CRPending: true, CRIJPReview: true, CRIJPAccepted: true, CRIJPRejected: true,
	CRInProgress: true, CRCandidatesFound: true, CRCandidatesSent: true,
	CRCompanyReview: true, CRInterviews: true, CRCompleted: true,
	CROnHold: true, CRCancelled: true,
}

func ParseCompanyRequestStatus(s string) (CompanyRequestStatus, error) {
	if allCompanyRequestStatuses[CompanyRequestStatus(s)] {
		return CompanyRequestStatus(s), nil
	}
	return "", apperrors.NewValidationError("company_request_status", "unknown status: "+s)
}

// InterviewStatus is the state of an interview negotiation.
type InterviewStatus string

const (
	InterviewProposed     InterviewStatus = "proposed"
	InterviewConfirmed    InterviewStatus = "confirmed"
	InterviewDeclined     InterviewStatus = "declined"
	InterviewNeedsNewDate InterviewStatus = "needs_new_dates"
	InterviewCompleted    InterviewStatus = "completed"
	InterviewCancelled    InterviewStatus = "cancelled"
)

func ParseInterviewStatus(s string) (InterviewStatus, error) {
	switch InterviewStatus(s) {
	case InterviewProposed, InterviewConfirmed, InterviewDeclined,
		InterviewNeedsNewDate, InterviewCompleted, InterviewCancelled:
		return InterviewStatus(s), nil
	}
	return "", apperrors.NewValidationError("interview_status", "unknown status: "+s)
}
