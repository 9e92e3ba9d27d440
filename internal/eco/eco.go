// Package eco names openings so the pipeline can label demonstration
// sequences the generator left unlabeled.
package eco

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/kasazen/chess-chat/internal/board"
)

// Opening is one ECO classification.
type Opening struct {
	ECO  string `json:"eco"`
	Name string `json:"name"`
}

// Database holds openings indexed by the EPD of their final position.
type Database struct {
	byEPD map[string]Opening
	count int
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{byEPD: make(map[string]Opening)}
}

// moveNumberRegex matches move numbers like "1." or "12..."
var moveNumberRegex = regexp.MustCompile(`\d+\.+\s*`)

// LoadDir loads every .tsv and .tsv.zst file from a directory.
func (db *Database) LoadDir(dir string) error {
	var files []string
	for _, pattern := range []string{"*.tsv", "*.tsv.zst"} {
		matched, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		files = append(files, matched...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .tsv or .tsv.zst files found in %s", dir)
	}

	for _, file := range files {
		if err := db.LoadFile(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// LoadFile loads a single TSV file, zstd-compressed when the name ends in .zst.
func (db *Database) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip header
		if lineNum == 1 && strings.HasPrefix(line, "eco\t") {
			continue
		}

		// Parse TSV: eco\tname\tpgn
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}

		pos, err := finalPosition(parts[2])
		if err != nil {
			// Skip invalid lines silently
			continue
		}

		db.byEPD[pos.EPD()] = Opening{ECO: parts[0], Name: parts[1]}
		db.count++
	}

	return scanner.Err()
}

// finalPosition replays PGN movetext like "1. e4 e5 2. Nf3" from the start.
func finalPosition(movetext string) (board.Position, error) {
	cleaned := moveNumberRegex.ReplaceAllString(movetext, "")
	pos := board.Start()

	for _, san := range strings.Fields(cleaned) {
		if san == "" || san[0] == '$' || san[0] == '{' {
			continue
		}
		next, err := pos.Apply(san)
		if err != nil {
			return board.Position{}, err
		}
		pos = next
	}
	return pos, nil
}

// Lookup returns the opening reached by a position, or nil if unknown.
func (db *Database) Lookup(pos board.Position) *Opening {
	if o, ok := db.byEPD[pos.EPD()]; ok {
		return &o
	}
	return nil
}

// LookupFEN parses a FEN and looks it up; unknown or invalid returns nil.
func (db *Database) LookupFEN(fen string) *Opening {
	pos, err := board.Load(fen)
	if err != nil {
		return nil
	}
	return db.Lookup(pos)
}

// Count returns the number of openings loaded.
func (db *Database) Count() int {
	return db.count
}
