package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrNotFound = errors.New("wordlist not found")

const maxLine = 1024 * 1024

// List is a loaded wordlist. Words keeps file order and duplicates.
type List struct {
	Path   string
	Words  []string
	Digest uint64
}

func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open wordlist %s: %w", path, err)
	}
	defer f.Close()

	hasher := xxh3.New()
	words, err := Parse(io.TeeReader(f, hasher))
	if err != nil {
		return nil, fmt.Errorf("read wordlist %s: %w", path, err)
	}
	return &List{Path: path, Words: words, Digest: hasher.Sum64()}, nil
}

// Parse reads one candidate per line. Input is decoded as UTF-8 unless a
// UTF-16 byte order mark says otherwise. Undecodable bytes are dropped and
// lines longer than maxLine are skipped.
func Parse(r io.Reader) ([]string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	br := bufio.NewReaderSize(transform.NewReader(r, dec), 64*1024)

	var (
		words    []string
		line     []byte
		oversize bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !oversize && len(line)+len(chunk) > maxLine {
			oversize = true
			line = line[:0]
		}
		if !oversize {
			line = append(line, chunk...)
		}
		if isPrefix {
			continue
		}

		if !oversize {
			w := strings.TrimSpace(dropInvalid(string(line)))
			if w != "" && !strings.HasPrefix(w, "#") {
				words = append(words, w)
			}
		}
		line = line[:0]
		oversize = false
	}
	return words, nil
}

// dropInvalid removes invalid UTF-8 and the replacement characters the
// decoder substitutes for it.
func dropInvalid(s string) string {
	return strings.Map(func(r rune) rune {
		if r == utf8.RuneError {
			return -1
		}
		return r
	}, s)
}

// IsValidCandidate reports whether s can be used as a single label in front
// of the target domain.
func IsValidCandidate(s string) bool {
	return s != "" && !strings.ContainsAny(s, "./ ")
}
