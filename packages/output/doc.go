// Package output renders responses to the terminal.
//
// JSON bodies are printed with sorted keys and four-space indentation and
// highlighted with chroma unless raw output is requested. Text bodies are
// printed verbatim. Attachments only produce a confirmation line. The
// optional status/headers block is coloured with fatih/color.
package output
