package core

import (
	"regexp"
	"strings"
)

var (
	unsafeChars  = regexp.MustCompile(`[^\w\s-]`)
	runsOfDashes = regexp.MustCompile(`[-\s]+`)
)

// SafeTaskFilename derives a task filename from free backlog text: unsafe
// characters are stripped, runs of whitespace and dashes collapse to a single
// space, and the .md extension is appended.
func SafeTaskFilename(item string) string {
	name := unsafeChars.ReplaceAllString(item, "")
	name = strings.TrimSpace(name)
	name = runsOfDashes.ReplaceAllString(name, " ")
	return name + ".md"
}

// TaskFilename derives a task filename from an explicit title. Path
// separators are replaced so the title cannot escape the tasks directory.
func TaskFilename(title string) string {
	name := strings.ReplaceAll(title, "/", "_")
	name = strings.ReplaceAll(name, `\`, "_")
	return name + ".md"
}

// ContactFilename derives a contact filename from a contact name.
func ContactFilename(name string) string {
	f := strings.ReplaceAll(name, " ", "_")
	f = strings.ReplaceAll(f, "/", "_")
	return f + ".md"
}

// EnsureMarkdownExt appends .md when the given filename lacks it. Status
// updates accept bare task names for convenience.
func EnsureMarkdownExt(filename string) string {
	if !strings.HasSuffix(filename, ".md") {
		return filename + ".md"
	}
	return filename
}
