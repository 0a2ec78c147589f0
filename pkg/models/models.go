package models

// WorkflowRun represents a single GitHub Actions workflow run
type WorkflowRun struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	RunNumber  int        `json:"run_number"`
	HeadBranch string     `json:"head_branch"`
	HeadCommit HeadCommit `json:"head_commit"`
	Status     string     `json:"status"`
	Conclusion string     `json:"conclusion"`
	HTMLURL    string     `json:"html_url"`
	JobsURL    string     `json:"jobs_url"`
	CreatedAt  Timestamp  `json:"created_at"`
}

// HeadCommit is the commit a run was triggered for
type HeadCommit struct {
	ID      string       `json:"id"`
	Message string       `json:"message"`
	Author  CommitAuthor `json:"author"`
}

type CommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// WorkflowRuns is the payload of the runs listing endpoint
type WorkflowRuns struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// Jobs is the payload served at a run's jobs_url
type Jobs struct {
	TotalCount int   `json:"total_count"`
	Jobs       []Job `json:"jobs"`
}

// Job represents a single job in a workflow run
type Job struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Conclusion  string    `json:"conclusion"`
	StartedAt   Timestamp `json:"started_at"`
	CompletedAt Timestamp `json:"completed_at"`
	Steps       []Step    `json:"steps"`
}

// Succeeded reports whether the job finished successfully. The conclusion
// wins when present; otherwise the raw status is compared.
func (j Job) Succeeded() bool {
	if j.Conclusion != "" {
		return j.Conclusion == "success"
	}
	return j.Status == "success"
}

// Running reports whether the job or any of its steps has not completed.
func (j Job) Running() bool {
	if j.StartedAt.Valid() && !j.CompletedAt.Present() {
		return true
	}
	for _, s := range j.Steps {
		if s.StartedAt.Valid() && !s.CompletedAt.Present() {
			return true
		}
	}
	return false
}

// Step is one atomic action within a job
type Step struct {
	Name        string    `json:"name"`
	Number      int       `json:"number"`
	Status      string    `json:"status"`
	Conclusion  string    `json:"conclusion"`
	StartedAt   Timestamp `json:"started_at"`
	CompletedAt Timestamp `json:"completed_at"`
}
