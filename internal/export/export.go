// Package export renders structured resume content into textual
// document layouts.
package export

import (
	"fmt"
	"sort"
	"strings"

	"resumeforge/internal/types"
)

// PlainText flattens a resume into the line-oriented form consumed by
// the ATS checker.
func PlainText(resume types.ResumeContent) string {
	var b strings.Builder

	if resume.PersonalInfo.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", resume.PersonalInfo.Name)
	}
	if resume.PersonalInfo.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", resume.PersonalInfo.Email)
	}
	if resume.PersonalInfo.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", resume.PersonalInfo.Phone)
	}

	if resume.Summary != "" {
		fmt.Fprintf(&b, "\nSummary:\n%s\n", resume.Summary)
	}

	if len(resume.Experience) > 0 {
		b.WriteString("\nExperience:\n")
		for _, exp := range resume.Experience {
			fmt.Fprintf(&b, "%s at %s\n", exp.Title, exp.Company)
			for _, bullet := range exp.Bullets {
				fmt.Fprintf(&b, "- %s\n", bullet)
			}
		}
	}

	if len(resume.Skills) > 0 {
		fmt.Fprintf(&b, "\nSkills: %s\n", strings.Join(resume.Skills, ", "))
	}

	if len(resume.Education) > 0 {
		b.WriteString("\nEducation:\n")
		for _, edu := range resume.Education {
			fmt.Fprintf(&b, "%s from %s\n", edu.Degree, edu.School)
		}
	}

	return b.String()
}

// Document renders the resume in the standard export layout as plain
// text: name, contact line, then the professional sections in fixed
// order.
func Document(resume types.ResumeContent) string {
	var b strings.Builder

	if resume.PersonalInfo.Name != "" {
		b.WriteString(resume.PersonalInfo.Name + "\n")
	}
	contact := contactLine(resume.PersonalInfo)
	if contact != "" {
		b.WriteString(contact + "\n")
	}

	if resume.Summary != "" {
		b.WriteString("\nProfessional Summary\n")
		b.WriteString(resume.Summary + "\n")
	}

	if len(resume.Experience) > 0 {
		b.WriteString("\nExperience\n")
		for _, exp := range resume.Experience {
			fmt.Fprintf(&b, "%s - %s\n", exp.Title, exp.Company)
			if dates := dateRange(exp); dates != "" {
				b.WriteString(dates + "\n")
			}
			for _, bullet := range exp.Bullets {
				fmt.Fprintf(&b, "• %s\n", bullet)
			}
		}
	}

	if len(resume.Skills) > 0 {
		b.WriteString("\nSkills\n")
		b.WriteString(strings.Join(resume.Skills, ", ") + "\n")
	}

	if len(resume.Education) > 0 {
		b.WriteString("\nEducation\n")
		for _, edu := range resume.Education {
			fmt.Fprintf(&b, "%s - %s\n", edu.Degree, edu.School)
			if edu.GraduationYear != "" {
				b.WriteString(edu.GraduationYear + "\n")
			}
		}
	}

	names := make([]string, 0, len(resume.AdditionalSections))
	for name := range resume.AdditionalSections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString("\n" + name + "\n")
		for _, line := range resume.AdditionalSections[name].Strings() {
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

// Markdown renders the resume layout with markdown headings, suitable
// for file output.
func Markdown(resume types.ResumeContent) string {
	var b strings.Builder

	if resume.PersonalInfo.Name != "" {
		fmt.Fprintf(&b, "# %s\n", resume.PersonalInfo.Name)
	}
	if contact := contactLine(resume.PersonalInfo); contact != "" {
		b.WriteString(contact + "\n")
	}

	if resume.Summary != "" {
		b.WriteString("\n## Professional Summary\n\n")
		b.WriteString(resume.Summary + "\n")
	}

	if len(resume.Experience) > 0 {
		b.WriteString("\n## Experience\n")
		for _, exp := range resume.Experience {
			fmt.Fprintf(&b, "\n**%s - %s**\n", exp.Title, exp.Company)
			if dates := dateRange(exp); dates != "" {
				fmt.Fprintf(&b, "*%s*\n", dates)
			}
			if len(exp.Bullets) > 0 {
				b.WriteString("\n")
				for _, bullet := range exp.Bullets {
					fmt.Fprintf(&b, "- %s\n", bullet)
				}
			}
		}
	}

	if len(resume.Skills) > 0 {
		b.WriteString("\n## Skills\n\n")
		b.WriteString(strings.Join(resume.Skills, ", ") + "\n")
	}

	if len(resume.Education) > 0 {
		b.WriteString("\n## Education\n")
		for _, edu := range resume.Education {
			fmt.Fprintf(&b, "\n**%s - %s**\n", edu.Degree, edu.School)
			if edu.GraduationYear != "" {
				b.WriteString(edu.GraduationYear + "\n")
			}
		}
	}

	return b.String()
}

func contactLine(info types.PersonalInfo) string {
	var parts []string
	if info.Email != "" {
		parts = append(parts, info.Email)
	}
	if info.Phone != "" {
		parts = append(parts, info.Phone)
	}
	return strings.Join(parts, " | ")
}

func dateRange(exp types.Experience) string {
	if exp.StartDate == "" {
		return ""
	}
	end := exp.EndDate
	if exp.IsCurrent || end == "" {
		end = "Present"
	}
	return exp.StartDate + " - " + end
}
