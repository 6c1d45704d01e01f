// Package config handles barbouse configuration files.
//
// Configuration is searched in the current directory (.barbouse.yaml,
// .barbouse.yml, .barbouse.json, barbouse.yaml) or loaded from an explicit
// path. YAML and JSON are both accepted, chosen by file extension.
//
// Settings:
//   - timeout: request timeout as a duration ("30s"; "0" disables)
//   - followRedirects / maxRedirects: redirect policy
//   - validateSSL, proxy: transport settings
//   - headers: default headers, overridden by headers in request files
//   - engine: filter engine (jq, jmespath, gjson)
//   - style, noColor: terminal output
//   - attachmentDir: where attachment responses are saved
//   - userAgent, logFile, logLevel
//
// Command-line flags take precedence over the file.
package config
