package application

import "time"

// Submission is the applicant's latest work. Internship submissions never
// carry DocsURL.
type Submission struct {
	GitHubURL   *string   `json:"github_url,omitempty"`
	LiveURL     *string   `json:"live_url,omitempty"`
	DocsURL     *string   `json:"docs_url,omitempty"`
	Notes       string    `json:"notes"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (s *Submission) link(l Link) *string {
	switch l {
	case LinkGitHub:
		return s.GitHubURL
	case LinkLive:
		return s.LiveURL
	case LinkDocs:
		return s.DocsURL
	}
	return nil
}

type Application struct {
	ID             string
	Kind           Kind
	UserID         int64
	TargetID       string
	TargetTitle    string
	ApplicantName  string
	ApplicantEmail string
	ResumeName     string
	Status         Status
	Submission     *Submission
	CreatedAt      time.Time
}
