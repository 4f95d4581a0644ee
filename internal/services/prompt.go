package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/job-matcher/internal/models"
)

// descriptionCharBudget caps the job description text included in a
// rescoring prompt. Truncation is deliberate and lossy; it bounds cost and
// latency per call.
const descriptionCharBudget = 1000

// maxWorkHistoryEntries caps the work history lines in a rescoring prompt.
const maxWorkHistoryEntries = 3

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCandidateText creates the text projection of a resume used for
// embedding: target roles, skills, work history summaries, seniority.
// Missing fields are simply omitted.
func (pb *PromptBuilder) BuildCandidateText(resume *models.Resume) string {
	var parts []string

	if len(resume.TargetJobTitles) > 0 {
		parts = append(parts, "Target roles: "+strings.Join(resume.TargetJobTitles, ", "))
	}

	if len(resume.TechnicalSkills) > 0 {
		parts = append(parts, "Technical skills: "+strings.Join(resume.TechnicalSkills, ", "))
	}

	if len(resume.SoftSkills) > 0 {
		parts = append(parts, "Soft skills: "+strings.Join(resume.SoftSkills, ", "))
	}

	if len(resume.WorkExperience) > 0 {
		var summaries []string
		for _, exp := range resume.WorkExperience {
			summary := fmt.Sprintf("%s at %s (%s)", exp.JobTitle, exp.CompanyName, exp.Duration)
			if exp.Industry != "" {
				summary += " in " + exp.Industry
			}
			if len(exp.Responsibilities) > 0 {
				limit := len(exp.Responsibilities)
				if limit > 2 {
					limit = 2
				}
				summary += ". " + strings.Join(exp.Responsibilities[:limit], ". ")
			}
			summaries = append(summaries, summary)
		}
		parts = append(parts, "Work experience:\n"+strings.Join(summaries, "\n"))
	}

	if resume.CareerLevel != "" {
		parts = append(parts, "Career level: "+string(resume.CareerLevel))
	}
	if resume.YearsOfExperience > 0 {
		parts = append(parts, fmt.Sprintf("Years of experience: %d", resume.YearsOfExperience))
	}

	return strings.Join(parts, "\n\n")
}

// BuildMatchPrompt creates the rescoring prompt for one candidate/job pair.
// The model must answer with a SCORE line and an EXPLANATION line.
func (pb *PromptBuilder) BuildMatchPrompt(resume *models.Resume, job models.JobPosting) string {
	name := resume.Name
	if name == "" {
		name = "Unknown"
	}

	targetRoles := "Not specified"
	if len(resume.TargetJobTitles) > 0 {
		targetRoles = strings.Join(resume.TargetJobTitles, ", ")
	}

	careerLevel := "Not specified"
	if resume.CareerLevel != "" {
		careerLevel = string(resume.CareerLevel)
	}

	yearsExp := "Not specified"
	if resume.YearsOfExperience > 0 {
		yearsExp = fmt.Sprintf("%d", resume.YearsOfExperience)
	}

	techSkills := "None listed"
	if len(resume.TechnicalSkills) > 0 {
		techSkills = strings.Join(resume.TechnicalSkills, ", ")
	}

	softSkills := "None listed"
	if len(resume.SoftSkills) > 0 {
		softSkills = strings.Join(resume.SoftSkills, ", ")
	}

	workExp := "No work experience listed"
	if len(resume.WorkExperience) > 0 {
		limit := len(resume.WorkExperience)
		if limit > maxWorkHistoryEntries {
			limit = maxWorkHistoryEntries
		}
		var lines []string
		for _, exp := range resume.WorkExperience[:limit] {
			lines = append(lines, fmt.Sprintf("- %s at %s (%s)", exp.JobTitle, exp.CompanyName, exp.Duration))
		}
		workExp = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are an expert recruiter evaluating job-candidate matches.

Your task:
1. Analyze how well the candidate's profile matches the job requirements
2. Provide a match score from 0-100 where:
   - 90-100: Excellent match, highly qualified
   - 70-89: Good match, meets most requirements
   - 50-69: Moderate match, meets some requirements
   - 30-49: Weak match, missing key requirements
   - 0-29: Poor match, not qualified
3. Provide a concise explanation (2-3 sentences) covering key strengths, any gaps, and an overall recommendation.

Be honest and objective. Consider skills, experience level, industry fit, and job requirements.

Respond in this exact format:
SCORE: [number 0-100]
EXPLANATION: [your 2-3 sentence explanation]

Candidate Profile:
Name: %s
Target Roles: %s
Career Level: %s
Years of Experience: %s
Technical Skills: %s
Soft Skills: %s
Work Experience:
%s

Job Posting:
Title: %s
Company: %s
Location: %s
Description: %s

Evaluate this match.`,
		name, targetRoles, careerLevel, yearsExp, techSkills, softSkills, workExp,
		job.JobTitle, job.CompanyName, job.Location,
		truncateRunes(job.Description, descriptionCharBudget))
}

// BuildResumeExtractionPrompt creates the prompt that turns raw resume text
// into the structured Resume JSON.
func (pb *PromptBuilder) BuildResumeExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert resume parser. Extract structured information from the resume text below.

Instructions:
- Extract all relevant information accurately
- If a field is not present, omit it from the JSON
- For target_job_titles: infer from recent positions or objective statement
- For career_level: infer from years of experience and job titles; one of Intern, Junior, Mid-Level, Senior, Lead, Principal, Executive
- For years_of_experience: calculate total years across all positions as an integer
- Extract technical skills, soft skills, and languages separately
- Parse work experience with company_name, job_title, duration, and industry
- Be thorough but accurate - don't hallucinate information

Return ONLY a JSON object with this structure:
{
  "name": "...",
  "email": "...",
  "target_job_titles": ["..."],
  "current_location": "...",
  "career_level": "...",
  "years_of_experience": 0,
  "work_experience": [{"company_name": "...", "job_title": "...", "duration": "...", "industry": "...", "responsibilities": ["..."]}],
  "past_industries": ["..."],
  "education": [{"level": "...", "field_of_study": "...", "institution": "...", "graduation_year": 0}],
  "technical_skills": ["..."],
  "soft_skills": ["..."],
  "languages": ["..."],
  "certifications": [{"name": "...", "issuing_organization": "..."}]
}

Resume text:

%s`, resumeText)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
