package llm

import (
	"fmt"
	"strings"

	"sarkari/ingest-service/internal/model"
)

// requiredKeys is the contract each category's prompt must elicit and
// the parser validates the presence of.
var requiredKeys = map[model.Category][]string{
	model.CategoryJob:       {"title", "organization", "lastDate", "description", "notificationText"},
	model.CategoryResult:    {"title", "organization", "postedDate"},
	model.CategoryAdmitCard: {"title", "organization", "lastDate", "postedDate"},
}

// RequiredKeys returns the keys the service must produce for a category.
func RequiredKeys(category model.Category) []string {
	return requiredKeys[category]
}

const promptPreamble = `You are an expert government job notification analyst. Analyze the following text and extract the key information.
Provide the output ONLY as a valid JSON object. Do not include any text before or after the JSON.
If a value cannot be determined from the text, use the exact string "Not Specified" — never omit a key.`

// categoryKeyGuides describes every key the prompt asks for, per
// category. Dates are always requested in YYYY-MM-DD format.
var categoryKeyGuides = map[model.Category][]string{
	model.CategoryJob: {
		`"title": The official name of the recruitment or exam.`,
		`"organization": The name of the recruiting body (e.g., Staff Selection Commission).`,
		`"vacancies": The total number of posts as a string (e.g., "17,727", "Not Specified").`,
		`"postedDate": The date the notification was posted, in "YYYY-MM-DD" format.`,
		`"lastDate": The last date to apply, in "YYYY-MM-DD" format.`,
		`"education": A concise summary of the required qualification (e.g., "10+2 Intermediate", "Bachelor's Degree").`,
		`"applicationUrl": The direct official URL to apply online.`,
		`"notificationPdfUrl": The direct official URL to the full PDF notification.`,
		`"notificationText": A detailed summary including age limits, application fees for different categories, the full selection process, and a syllabus outline.`,
	},
	model.CategoryResult: {
		`"title": The official name of the result or merit list.`,
		`"organization": The name of the publishing body.`,
		`"postedDate": The date the result was declared, in "YYYY-MM-DD" format.`,
		`"description": A short summary of the result notice, including cutoffs if stated.`,
	},
	model.CategoryAdmitCard: {
		`"title": The official name of the admit card or status notice.`,
		`"organization": The name of the issuing body.`,
		`"postedDate": The date the notice was published, in "YYYY-MM-DD" format.`,
		`"lastDate": The exam date or download deadline, in "YYYY-MM-DD" format.`,
		`"description": A short summary of the notice, including how to download.`,
	},
}

// BuildPrompt assembles the category-specific instruction template
// around the verified title and extracted body text.
func BuildPrompt(category model.Category, title, body string) (string, error) {
	guides, ok := categoryKeyGuides[category]
	if !ok {
		return "", fmt.Errorf("no prompt template for category %q", category)
	}

	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nThe JSON object must have these exact keys:\n")
	for _, g := range guides {
		b.WriteString("- ")
		b.WriteString(g)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nNotification title: %s\n", title)
	b.WriteString("\nHere is the text to analyze:\n---\n")
	b.WriteString(body)
	b.WriteString("\n---\n")
	return b.String(), nil
}

// StripFences removes a surrounding markdown code fence (``` or
// ```json) from the service's payload, which models emit despite being
// told not to.
func StripFences(payload string) string {
	s := strings.TrimSpace(payload)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag on the opening fence.
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
