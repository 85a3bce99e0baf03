// Package importer turns institution CSV exports into normalized
// transactions. Parsers are selected from the filename convention
// {institution}_{accountID}_{YYYYMM}.csv.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// Result is what a parser produced from one file.
type Result struct {
	Transactions []model.Transaction
	Warnings     []string
	SkippedRows  int
}

// Parser converts one institution's CSV export into Transactions.
type Parser interface {
	Parse(r io.Reader, accountID int, sourceFile string) (Result, error)
	Institution() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate institution.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Institution())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser institution: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for an institution, or nil.
func (r *Registry) Get(institution string) Parser {
	return r.parsers[strings.ToLower(institution)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&AmexParser{})
	r.Register(&BoACheckingParser{})
	r.Register(&BoACreditParser{})
	r.Register(&ChaseCheckingParser{})
	r.Register(&DiscoverParser{})
	r.Register(&FidelityParser{})
	return r
}

var filenamePattern = regexp.MustCompile(`^([a-z][a-z0-9-]*)_(\d{4})_(\d{6})\.csv$`)

// Detection names the parser and account for one import file.
type Detection struct {
	Parser      Parser
	AccountID   int
	Institution string
}

// Detect resolves a filename to a parser and account ID. Hidden and temp
// files, and files no parser claims, return ok=false.
func (r *Registry) Detect(filename string) (Detection, bool) {
	if strings.HasPrefix(filename, ".") || strings.HasPrefix(filename, "~") {
		return Detection{}, false
	}
	m := filenamePattern.FindStringSubmatch(strings.ToLower(filename))
	if m == nil {
		return Detection{}, false
	}
	p := r.Get(m[1])
	if p == nil {
		return Detection{}, false
	}
	accountID, err := strconv.Atoi(m[2])
	if err != nil {
		return Detection{}, false
	}
	return Detection{Parser: p, AccountID: accountID, Institution: m[1]}, true
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns CSV files in <workspaceRoot>/import/, sorted by name.
// Lexicographic order keeps collision suffixes and cross-file dedup
// deterministic across runs.
func Scan(workspaceRoot string) ([]FileInfo, error) {
	dir := filepath.Join(workspaceRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(workspaceRoot, fileName string) error {
	src := filepath.Join(workspaceRoot, importDir, fileName)
	dstDir := filepath.Join(workspaceRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
