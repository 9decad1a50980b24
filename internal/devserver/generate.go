package devserver

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/abhisek/quizly/internal/api"
)

// sentences splits text on terminal punctuation and drops fragments too
// short to quiz on.
func sentences(text string) []string {
	var out []string
	start := 0
	flush := func(end int) {
		s := strings.TrimSpace(text[start:end])
		if len(strings.Fields(s)) >= 3 {
			out = append(out, s)
		}
		start = end
	}
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			flush(i + 1)
		}
	}
	flush(len(text))
	return out
}

// keyword picks the longest word of a sentence, ignoring punctuation.
func keyword(sentence string) string {
	best := ""
	for _, w := range strings.Fields(sentence) {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if len([]rune(w)) > len([]rune(best)) {
			best = w
		}
	}
	return best
}

// buildQuestions turns text into at most n questions. Multiple choice
// questions blank out each sentence's keyword and draw distractors from
// the other sentences. True/false questions alternate between the original
// sentence and one with a swapped keyword.
func buildQuestions(text, questionType string, numOptions, n int) []api.Question {
	ss := sentences(text)
	if len(ss) > n {
		ss = ss[:n]
	}
	keys := make([]string, len(ss))
	for i, s := range ss {
		keys[i] = keyword(s)
	}
	if numOptions < 2 {
		numOptions = 2
	}

	var out []api.Question
	for i, s := range ss {
		key := keys[i]
		if key == "" {
			continue
		}
		id := strconv.Itoa(i + 1)

		if questionType == api.TrueFalse {
			q := api.Question{ID: id, Type: api.TrueFalse, Question: s, Answer: "True"}
			other := keys[(i+1)%len(keys)]
			if i%2 == 1 && other != "" && other != key {
				q.Question = strings.Replace(s, key, other, 1)
				q.Answer = "False"
			}
			out = append(out, q)
			continue
		}

		options := []string{key}
		seen := map[string]bool{strings.ToLower(key): true}
		for j := 1; j < len(keys) && len(options) < numOptions; j++ {
			d := keys[(i+j)%len(keys)]
			if d != "" && !seen[strings.ToLower(d)] {
				seen[strings.ToLower(d)] = true
				options = append(options, d)
			}
		}
		for k := 1; len(options) < numOptions; k++ {
			options = append(options, fmt.Sprintf("None of these (%d)", k))
		}
		// Rotate so the answer is not always first.
		shift := i % len(options)
		options = append(append([]string{}, options[shift:]...), options[:shift]...)

		out = append(out, api.Question{
			ID:       id,
			Type:     api.MultipleChoice,
			Question: strings.Replace(s, key, "_____", 1),
			Options:  options,
			Answer:   key,
		})
	}
	return out
}

// pdfPlaceholderText stands in for extracted PDF text. The stand-in never
// parses the document.
func pdfPlaceholderText(name string, start, end int) string {
	name = strings.NewReplacer(".", " ", "!", " ", "?", " ").Replace(name)
	var b strings.Builder
	for p := start; p <= end; p++ {
		fmt.Fprintf(&b, "Page %d of %s covers section%d material. ", p, name, p)
	}
	return b.String()
}

// mockTestQuestions builds the numbered question list of a mock test.
func mockTestQuestions(req api.MockTestRequest) []string {
	out := make([]string, req.NumQuestions)
	for i := range out {
		out[i] = fmt.Sprintf("%d. (%s) Explain aspect %d of %s: %s", i+1, req.Difficulty, i+1, req.Topic, req.Description)
	}
	return out
}

// renderPDF produces a minimal single-page PDF listing lines.
func renderPDF(title string, lines []string) []byte {
	var content bytes.Buffer
	content.WriteString("BT /F1 12 Tf 50 780 Td 14 TL\n")
	fmt.Fprintf(&content, "(%s) Tj T*\n", pdfEscape(title))
	for _, l := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", pdfEscape(l))
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func pdfEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
