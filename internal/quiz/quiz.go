package quiz

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ErrLoad is returned when the question bank is missing, unreadable or empty.
var ErrLoad = errors.New("load question bank")

// minFields is prompt + at least three choices + label.
const minFields = 5

type Question struct {
	Prompt  string
	Choices []string
	Correct rune
}

// Options renders the choices the way they go out on the wire.
func (q Question) Options() string {
	return strings.Join(q.Choices, " | ")
}

// IsCorrect compares labels case-insensitively.
func (q Question) IsCorrect(label rune) bool {
	return unicode.ToUpper(label) == q.Correct
}

// Load reads a pipe-delimited question bank. Blank lines and lines starting
// with '#' are skipped; malformed lines are skipped with a warning.
func Load(path string, log *zap.Logger) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	var questions []Question
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		q, ok := parseLine(line)
		if !ok {
			log.Warn("skipping malformed question line", zap.Int("line", lineNo), zap.String("text", line))
			continue
		}
		questions = append(questions, q)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no valid questions in %s", ErrLoad, path)
	}
	return questions, nil
}

func parseLine(line string) (Question, bool) {
	parts := strings.Split(line, "|")
	if len(parts) < minFields {
		return Question{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	label, _ := utf8.DecodeRuneInString(parts[len(parts)-1])
	if label == utf8.RuneError || parts[0] == "" {
		return Question{}, false
	}

	return Question{
		Prompt:  parts[0],
		Choices: append([]string(nil), parts[1:len(parts)-1]...),
		Correct: unicode.ToUpper(label),
	}, true
}

// Shuffler reorders a question sequence. Only the order changes.
type Shuffler struct {
	rng *rand.Rand
}

func NewShuffler(seed uint64) *Shuffler {
	return &Shuffler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Reshuffle shuffles qs in place and returns it.
func (s *Shuffler) Reshuffle(qs []Question) []Question {
	s.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return qs
}
