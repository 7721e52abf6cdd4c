// Package export renders conversations as Markdown and packages them for
// download, one file per conversation or a single store-only ZIP.
//
// File names follow
//
//	{prefix_}YYYY-MM-DD-HH-MM_{title}{_suffix}.md
//
// where every component passes through Safe and the timestamp is the
// conversation's creation time in UTC.
package export
