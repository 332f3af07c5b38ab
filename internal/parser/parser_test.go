package parser

import (
	"reflect"
	"strings"
	"testing"
)

const sampleResume = `John Smith
john.smith@example.com
555-123-4567

PROFESSIONAL SUMMARY
Seasoned backend developer with a focus on
distributed systems and cloud infrastructure.

WORK EXPERIENCE
Senior Software Engineer
• Built Python services on AWS
• Led migration to Kubernetes
Data Analyst
- Automated SQL reporting pipelines

EDUCATION
Bachelor of Science in Computer Science
`

func TestParsePersonalInfo(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedName  string
		expectedEmail string
		expectedPhone string
	}{
		{
			name:          "standard header",
			text:          sampleResume,
			expectedName:  "John Smith",
			expectedEmail: "john.smith@example.com",
			expectedPhone: "555-123-4567",
		},
		{
			name:          "parenthesized phone",
			text:          "Jane Doe\njane@test.org\n(555) 987-6543",
			expectedName:  "Jane Doe",
			expectedEmail: "jane@test.org",
			expectedPhone: "(555) 987-6543",
		},
		{
			name:          "single word lines skipped for name",
			text:          "Resume\nAlice Johnson\nalice@mail.com",
			expectedName:  "Alice Johnson",
			expectedEmail: "alice@mail.com",
		},
		{
			name: "no name in first five lines",
			text: "a\nb\nc\nd\ne\nFar Down Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text).PersonalInfo
			if got.Name != tt.expectedName {
				t.Errorf("name: expected %q, got %q", tt.expectedName, got.Name)
			}
			if got.Email != tt.expectedEmail {
				t.Errorf("email: expected %q, got %q", tt.expectedEmail, got.Email)
			}
			if got.Phone != tt.expectedPhone {
				t.Errorf("phone: expected %q, got %q", tt.expectedPhone, got.Phone)
			}
		})
	}
}

func TestParseSummary(t *testing.T) {
	got := Parse(sampleResume).Summary
	want := "Seasoned backend developer with a focus on distributed systems and cloud infrastructure."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseSummaryStopsAtUppercaseHeading(t *testing.T) {
	text := "SUMMARY\nFirst line.\nSKILLS\nPython"
	got := Parse(text).Summary
	if got != "First line." {
		t.Errorf("expected summary to stop at heading, got %q", got)
	}
}

func TestParseExperience(t *testing.T) {
	exp := Parse(sampleResume).Experience
	if len(exp) != 2 {
		t.Fatalf("expected 2 experience entries, got %d", len(exp))
	}
	if exp[0].Title != "Senior Software Engineer" {
		t.Errorf("expected first title, got %q", exp[0].Title)
	}
	wantBullets := []string{"Built Python services on AWS", "Led migration to Kubernetes"}
	if !reflect.DeepEqual(exp[0].Bullets, wantBullets) {
		t.Errorf("expected bullets %v, got %v", wantBullets, exp[0].Bullets)
	}
	if exp[1].Title != "Data Analyst" {
		t.Errorf("expected second title, got %q", exp[1].Title)
	}
	if !reflect.DeepEqual(exp[1].Bullets, []string{"Automated SQL reporting pipelines"}) {
		t.Errorf("unexpected second entry bullets: %v", exp[1].Bullets)
	}
}

func TestParseExperienceEmptyWithoutSection(t *testing.T) {
	exp := Parse("Just a name\nand nothing else").Experience
	if len(exp) != 0 {
		t.Errorf("expected no entries, got %v", exp)
	}
}

func TestParseEducation(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		expectEntry bool
	}{
		{name: "bachelor mentioned", text: "Bachelor of Arts", expectEntry: true},
		{name: "master mentioned", text: "holds a Master's degree", expectEntry: true},
		{name: "phd mentioned", text: "PhD in Physics", expectEntry: true},
		{name: "no degree", text: "self taught programmer", expectEntry: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edu := Parse(tt.text).Education
			if tt.expectEntry {
				if len(edu) != 1 {
					t.Fatalf("expected one entry, got %d", len(edu))
				}
				if edu[0].Degree != "Degree found in text" || edu[0].School != "University" {
					t.Errorf("unexpected placeholder entry: %+v", edu[0])
				}
			} else if len(edu) != 0 {
				t.Errorf("expected no entries, got %v", edu)
			}
		})
	}
}

func TestParseSkills(t *testing.T) {
	text := "Experienced with PYTHON, node.js and machine learning. Also git."
	got := Parse(text).Skills
	want := []string{"Python", "Node.Js", "Git", "Machine Learning"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseSkillsEmpty(t *testing.T) {
	got := Parse("I enjoy gardening").Skills
	if len(got) != 0 {
		t.Errorf("expected empty skills, got %v", got)
	}
}

func TestParseDeterministic(t *testing.T) {
	first := Parse(sampleResume)
	second := Parse(sampleResume)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical results for identical input")
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"python", "Python"},
		{"node.js", "Node.Js"},
		{"machine learning", "Machine Learning"},
		{"css", "Css"},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestIsAllUpper(t *testing.T) {
	if !isAllUpper("WORK EXPERIENCE") {
		t.Error("expected heading to be detected")
	}
	if isAllUpper("Work Experience") {
		t.Error("mixed case should not be a heading")
	}
	if isAllUpper("1234 --") {
		t.Error("lines without letters are not headings")
	}
}

func TestParseBulletGlyphs(t *testing.T) {
	text := strings.Join([]string{
		"EXPERIENCE",
		"Platform Engineer",
		"• dot bullet",
		"- dash bullet",
		"* star bullet",
	}, "\n")
	exp := Parse(text).Experience
	if len(exp) != 1 {
		t.Fatalf("expected one entry, got %d", len(exp))
	}
	want := []string{"dot bullet", "dash bullet", "star bullet"}
	if !reflect.DeepEqual(exp[0].Bullets, want) {
		t.Errorf("expected %v, got %v", want, exp[0].Bullets)
	}
}
