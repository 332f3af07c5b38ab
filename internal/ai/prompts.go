package ai

// SystemPrompts holds the system instructions per operation.
type SystemPrompts struct {
	AnalyzeJob    string
	EnhanceBullet string
}

// UserPrompts holds the user prompt templates per operation. Templates are
// fmt format strings; the provider supplies the dynamic content.
type UserPrompts struct {
	AnalyzeJob    string
	EnhanceBullet string
}

// DefaultSystemPrompts are used when no file-loaded or configured prompt
// overrides them.
var DefaultSystemPrompts = SystemPrompts{
	AnalyzeJob: `You are an expert technical recruiter and job market analyst with deep knowledge of:

- Skill taxonomy across software engineering, data, and adjacent fields
- How job postings encode seniority, qualifications, and team culture
- ATS (Applicant Tracking System) keyword conventions

Your role is to read a job description and extract a structured profile of
what the employer actually requires. Your core principles are:

- Only report skills and requirements that appear in the posting
- Distinguish hard requirements from nice-to-have qualifications
- Normalize skill names to their common industry spelling
- Keep responsibilities concise and action-oriented`,

	EnhanceBullet: `You are an expert resume writer with a strict commitment to honesty and accuracy. Your core principles are:

- NEVER invent, exaggerate, or misattribute any skills or experiences
- Every piece of information must be directly traceable to the original bullet
- Prefer strong action verbs and concrete, quantified impact
- Weave in job-relevant keywords only where the underlying experience supports them

Your expertise includes resume optimization, ATS keyword alignment, and HR best practices.`,
}

// DefaultUserPrompts are the built-in prompt templates. AnalyzeJob takes the
// job text; EnhanceBullet takes the bullet, the required skills, and the
// role's responsibilities, in that order.
var DefaultUserPrompts = UserPrompts{
	AnalyzeJob: `Please analyze the following job description and extract a structured requirements profile.

**Extract:**

1. **Required Skills**: Technical skills the posting explicitly requires.
2. **Preferred Skills**: Skills listed as nice-to-have or a plus.
3. **Qualifications**: Degrees, certifications, and years-of-experience requirements.
4. **Key Responsibilities**: The main duties of the role, as short action statements.
5. **Company Culture Keywords**: Words the posting uses to describe the team or values.
6. **Experience Level**: One of "junior", "mid", or "senior".
7. **Industry**: The primary industry of the employer (for example "technology", "finance", "healthcare", or "general").

**Job Description:**
-----
%s
-----`,

	EnhanceBullet: `Please rewrite the following resume bullet point so it better targets the job requirements below, without inventing anything that is not already in the bullet.

**Requirements:**
- Keep every claim traceable to the original bullet
- Use a strong action verb and concrete phrasing
- Incorporate relevant keywords from the required skills where the experience genuinely matches
- Provide a short explanation of what you improved
- Score the rewritten bullet's relevance to the job from 0 to 100

**Original Bullet:**
-----
%s
-----

**Required Skills:**
%s

**Key Responsibilities of the Role:**
%s`,
}
