// Package runner executes request files one at a time.
//
// For each file it:
//   - Parses the file, templating placeholders from the supplied variables
//   - Prints the progress line and sends the request
//   - Classifies the response as attachment, JSON or text
//   - Saves attachments, or filters and renders JSON, or prints text
//
// A filter given to the runner overrides the file's own filter. Nothing is
// rendered for a file until its output has been fully prepared.
package runner
