// Package classify decides how a response body is presented.
//
// The decision is taken once, in order:
//   - Content-Disposition with the "attachment" token: Attachment
//   - a body that decodes as JSON: JSON
//   - anything else: Text
//
// A body that is not JSON is a normal outcome, not an error.
package classify
