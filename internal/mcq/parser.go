package mcq

import (
	"regexp"
	"strings"
)

// Record is one validated multiple-choice question parsed from model output.
type Record struct {
	Question     string
	Options      []string // exactly four, in encountered order
	AnswerLetter string   // one of A, B, C, D
	Explanation  string   // may be empty
}

var (
	blockStartRe  = regexp.MustCompile(`(?m)^Q\d+:`)
	questionRe    = regexp.MustCompile(`(?m)^Q\d+:[ \t]*(.*)`)
	optionRe      = regexp.MustCompile(`(?m)^([A-D])\.[ \t]*(.*)`)
	answerRe      = regexp.MustCompile(`Answer:[ \t]*([A-D])`)
	explanationRe = regexp.MustCompile(`Explanation:[ \t]*(.*)`)
)

// Parse turns raw model output into validated question records. It is
// tolerant of a model that does not perfectly follow the template: the text
// is split into blocks at each line starting with "Q<digits>:" (numbering is
// not validated), and a block is accepted only if it carries a question line,
// exactly four option lines, and an answer letter. Malformed blocks are
// dropped silently; valid neighbors are unaffected. Records are returned in
// source order, which later grading relies on positionally.
func Parse(raw string) []Record {
	var records []Record

	for _, block := range splitBlocks(raw) {
		q := questionRe.FindStringSubmatch(block)
		opts := optionRe.FindAllStringSubmatch(block, -1)
		ans := answerRe.FindStringSubmatch(block)

		if q == nil || len(opts) != 4 || ans == nil {
			continue
		}

		options := make([]string, 0, 4)
		for _, opt := range opts {
			options = append(options, strings.TrimSpace(opt[2]))
		}

		explanation := ""
		if exp := explanationRe.FindStringSubmatch(block); exp != nil {
			explanation = strings.TrimSpace(exp[1])
		}

		records = append(records, Record{
			Question:     strings.TrimSpace(q[1]),
			Options:      options,
			AnswerLetter: ans[1],
			Explanation:  explanation,
		})
	}

	return records
}

// splitBlocks slices the raw text at each "Q<n>:" line start. Text before the
// first marker has no question line and is dropped by the accept rules.
func splitBlocks(raw string) []string {
	starts := blockStartRe.FindAllStringIndex(raw, -1)
	if len(starts) == 0 {
		return nil
	}

	blocks := make([]string, 0, len(starts))
	for i, start := range starts {
		end := len(raw)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		blocks = append(blocks, raw[start[0]:end])
	}
	return blocks
}
