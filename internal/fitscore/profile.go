package fitscore

// candidateProfile is the fixed résumé every job description is scored
// against. Editing it is a deploy, not a database write.
const candidateProfile = `Name: Arif Pratama
Role: Backend / Platform Engineer (6 years)

Experience:
- Senior Backend Engineer, logistics SaaS (2022-now): Go services on Postgres,
  designed quota and billing enforcement for a multi-tenant API, p99 < 80ms at
  ~2k rps, on-call ownership of the payment ingestion pipeline.
- Backend Engineer, e-commerce marketplace (2019-2022): order workflow services
  in Go and a legacy Node.js monolith, led migration of session storage from
  memcached to Postgres-backed tokens, built internal CLI tooling.

Skills: Go, PostgreSQL, Redis, gRPC, REST API design, Docker, Kubernetes,
Terraform, Prometheus/Grafana, CI/CD (GitHub Actions), basic TypeScript/React.

Strengths: production reliability work, API and data-model design, pragmatic
observability, mentoring juniors.
Gaps: no mobile development, limited frontend depth, no ML model training
experience (comfortable integrating LLM APIs).`

const analysisSystemPrompt = `You are a technical recruiter assistant. Compare the candidate profile ` +
	`against the job description and respond with valid JSON only, using exactly ` +
	`this shape: {"matchScore": <integer 0-100>, "summary": <string>, ` +
	`"strengths": [<string>], "gaps": [<string>], "verdict": <"High Match" | ` +
	`"Potential Match" | "Low Match">}. Be specific and honest; do not inflate the score.`

func buildAnalysisPrompt(jobDescription string) string {
	return "Candidate profile:\n" + candidateProfile + "\n\nJob description:\n" + jobDescription
}
