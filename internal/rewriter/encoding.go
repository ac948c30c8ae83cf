package rewriter

import "strings"

// encodingRepairs maps common mis-decoded sequences back to their intended
// code points: UTF-8 bytes that were read as Latin-1/Windows-1252 during
// capture. A fixed table, not a charset detector; sequences outside the table
// pass through untouched.
var encodingRepairs = strings.NewReplacer(
	// Punctuation (U+2018..U+2026 read as three Latin-1 bytes).
	"â€™", "’", // ’
	"â€˜", "‘", // ‘
	"â€œ", "“", // “
	"â€", "”", // ”
	"â€“", "–", // –
	"â€”", "—", // —
	"â€¦", "…", // …
	// Latin letters with diacritics (two-byte UTF-8 read as Ã + trailer).
	"Ã©", "é",
	"Ã¨", "è",
	"Ãª", "ê",
	"Ã«", "ë",
	"Ã¡", "á",
	"Ã¤", "ä",
	"Ã¶", "ö",
	"Ã¼", "ü",
	"Ã±", "ñ",
	"Ã§", "ç",
	"Ã³", "ó",
	"Ã­", "í",
	"Ãº", "ú",
	// Symbols prefixed with a stray Â (0xC2 lead byte shown literally).
	"Â ", " ",
	"Â©", "©",
	"Â®", "®",
	"Â°", "°",
	"Â·", "·",
	"Â«", "«",
	"Â»", "»",
	// Entity-spelled forms of the same mojibake, seen when a captured page
	// re-escaped the broken bytes.
	"&acirc;&euro;&trade;", "’",
	"&acirc;&euro;&oelig;", "“",
	"&acirc;&euro;&#157;", "”",
	"&Acirc;&nbsp;", " ",
)

// RepairEncoding normalizes known mis-decoded sequences in captured text.
// Best effort only: it runs before link rewriting so repaired pages render
// their punctuation correctly, and is a no-op for clean input.
func RepairEncoding(s string) string {
	return encodingRepairs.Replace(s)
}
