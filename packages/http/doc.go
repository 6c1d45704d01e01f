// Package http executes requests built from parsed request files.
//
// It wraps the standard library's http package with:
//   - Configurable timeouts (a hung server cannot hang the tool forever)
//   - Redirect, proxy and TLS verification settings
//   - Default headers merged under the file's own headers
//   - Fully read responses with headers in a stable order
//
// Every failure to obtain a response is reported as a *TransportError.
package http
