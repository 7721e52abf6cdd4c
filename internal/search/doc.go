// Package search filters, previews and summarizes loaded conversations.
//
// Matching is case-insensitive: text and query are NFC-normalized and
// case-folded before a substring test. Conversations whose parent links
// loop are logged and skipped by the functions here; exporting them is
// still an error.
package search
