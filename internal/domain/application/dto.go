package application

import (
	"strings"
	"time"
)

// SubmitRequest also accepts the older githubLink/liveLink/docsLink names.
type SubmitRequest struct {
	GitHubURL  string `json:"github_url"`
	LiveURL    string `json:"live_url"`
	DocsURL    string `json:"docs_url"`
	GitHubLink string `json:"githubLink,omitempty"`
	LiveLink   string `json:"liveLink,omitempty"`
	DocsLink   string `json:"docsLink,omitempty"`
	Notes      string `json:"notes"`
}

func (r SubmitRequest) input() SubmitInput {
	return SubmitInput{
		GitHubURL: firstNonBlank(r.GitHubURL, r.GitHubLink),
		LiveURL:   firstNonBlank(r.LiveURL, r.LiveLink),
		DocsURL:   firstNonBlank(r.DocsURL, r.DocsLink),
		Notes:     r.Notes,
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type DecideRequest struct {
	Status string `json:"status" binding:"required"`
}

type ApplicationResponse struct {
	ID              string      `json:"id"`
	Kind            string      `json:"kind"`
	UserID          int64       `json:"user_id"`
	ProjectID       string      `json:"project_id,omitempty"`
	ProjectTitle    string      `json:"project_title,omitempty"`
	InternshipID    string      `json:"internship_id,omitempty"`
	InternshipTitle string      `json:"internship_title,omitempty"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	ResumeName      string      `json:"resume_name,omitempty"`
	ResumeURL       string      `json:"resume_url,omitempty"`
	Status          Status      `json:"status"`
	Submission      *Submission `json:"submission,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type MyApplicationsResponse struct {
	Internships []ApplicationResponse `json:"internships"`
	Projects    []ApplicationResponse `json:"projects"`
}

func toResponse(a *Application, resumeBase string) ApplicationResponse {
	out := ApplicationResponse{
		ID:         a.ID,
		Kind:       a.Kind.Name,
		UserID:     a.UserID,
		Name:       a.ApplicantName,
		Email:      a.ApplicantEmail,
		ResumeName: a.ResumeName,
		Status:     a.Status,
		Submission: a.Submission,
		CreatedAt:  a.CreatedAt,
	}
	if a.ResumeName != "" {
		out.ResumeURL = strings.TrimRight(resumeBase, "/") + "/" + a.ResumeName
	}
	switch a.Kind.Name {
	case KindProject.Name:
		out.ProjectID = a.TargetID
		out.ProjectTitle = a.TargetTitle
	case KindInternship.Name:
		out.InternshipID = a.TargetID
		out.InternshipTitle = a.TargetTitle
	}
	return out
}

func toResponses(apps []Application, resumeBase string) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, toResponse(&apps[i], resumeBase))
	}
	return out
}
