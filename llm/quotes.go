package llm

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var smartQuotes = []struct {
	r     rune
	ascii string
}{
	{'“', `"`}, // left double
	{'”', `"`}, // right double
	{'„', `"`}, // low double
	{'‟', `"`},
	{'″', `"`}, // double prime
	{'‘', "'"}, // left single
	{'’', "'"}, // right single
	{'‚', "'"}, // low single
	{'‛', "'"},
	{'′', "'"}, // prime
}

var (
	fenceReplacer = strings.NewReplacer("```json", "", "```JSON", "", "```", "")
	quoteReplacer = buildQuoteReplacer()
)

// buildQuoteReplacer maps every smart quote, and the text its UTF-8 bytes turn
// into when read as Windows-1252 or Mac Roman, to an ASCII quote.
func buildQuoteReplacer() *strings.Replacer {
	var mojibake, plain []string
	for _, q := range smartQuotes {
		raw := string(q.r)
		for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.Macintosh} {
			decoded, err := cm.NewDecoder().String(raw)
			if err != nil || decoded == raw {
				continue
			}
			mojibake = append(mojibake, decoded, q.ascii)
		}
		plain = append(plain, raw, q.ascii)
	}

	// Right double quote ends in 0x9D, which Windows-1252 leaves undefined;
	// upstream decoders emit it as a C1 control or drop it.
	mojibake = append(mojibake, "â€\u009d", `"`, "â€\uFFFD", `"`, "â€", `"`)

	// Longer mojibake forms go first so they win over the bare two-rune prefix.
	return strings.NewReplacer(append(mojibake, plain...)...)
}

// CleanText strips code fences and smart quotes and returns NFC text.
func CleanText(raw string) string {
	text := fenceReplacer.Replace(raw)
	text = quoteReplacer.Replace(text)
	return norm.NFC.String(text)
}
