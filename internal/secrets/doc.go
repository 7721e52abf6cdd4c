// Package secrets redacts credentials from exported Markdown.
//
// Detection uses the Gitleaks default rule set. An optional allowlist in
// Gitleaks TOML format suppresses known-safe matches:
//
//	[allowlist]
//	regexes = ['''DEMO_API_KEY''']
//
// Matches are replaced with [REDACTED:rule-id:xxxx] markers that keep the
// first four characters of the secret.
package secrets
