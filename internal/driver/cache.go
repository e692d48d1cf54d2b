package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cncmacro/internal/config"
	"cncmacro/internal/diag"
	"cncmacro/internal/source"
	"cncmacro/internal/symbols"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// Digest is a SHA-256 sum.
type Digest [32]byte

// DiskCache хранит диагностики файлов на диске по ключу из содержимого и конфигурации.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of one file.
type DiskPayload struct {
	Schema uint16
	Path   string

	// Includes are validated on every hit: any changed file is a miss.
	Includes    []IncludeDigest
	Diagnostics []CachedDiagnostic
}

// IncludeDigest pins one include directive: on lookup Raw is resolved again
// from From and must still land on Path with the same content.
type IncludeDigest struct {
	Raw  string
	From string
	Path string
	Hash Digest
}

// CachedSpan хранит путь вместо FileID: id в новом FileSet будут другими.
// Пустой Path - сам диагностируемый файл.
type CachedSpan struct {
	Path  string
	Start uint32
	End   uint32
}

type CachedNote struct {
	Span CachedSpan
	Msg  string
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Primary  CachedSpan
	Notes    []CachedNote
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "diag", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, чтобы параллельный Put не писал в удаляемое
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheKey: H(schema || limit || path || content || config).
// Лимит входит в ключ: парсер с MaxErrors теряет маркеры.
func cacheKey(file *source.File, cfg *config.Config, maxErrors uint) Digest {
	h := sha256.New()
	_ = binary.Write(h, binary.LittleEndian, diskCacheSchemaVersion)
	_ = binary.Write(h, binary.LittleEndian, uint64(maxErrors))
	_, _ = h.Write([]byte(file.Path))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(file.Hash[:])
	_, _ = h.Write([]byte(configFingerprint(cfg)))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// configFingerprint - всё, что влияет на результат: правила и workspace.
func configFingerprint(cfg *config.Config) string {
	rules := make([]string, 0, len(cfg.Lint))
	for rule, sev := range cfg.Lint {
		rules = append(rules, fmt.Sprintf("%s=%d", rule, sev))
	}
	slices.Sort(rules)
	return fmt.Sprintf("%v|%v|%s|%v", rules, cfg.Workspace.IncludePaths, cfg.Workspace.Encoding, cfg.Workspace.Extensions)
}

func hashFile(path string) (Digest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(content), nil
}

func (c *DiskCache) store(key Digest, fs *source.FileSet, file *source.File, links []symbols.IncludeLink, raw []diag.Diagnostic) error {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        file.Path,
		Includes:    make([]IncludeDigest, 0, len(links)),
		Diagnostics: make([]CachedDiagnostic, 0, len(raw)),
	}
	for _, link := range links {
		sum, err := hashFile(link.URI)
		if err != nil {
			return fmt.Errorf("hash include %s: %w", link.URI, err)
		}
		payload.Includes = append(payload.Includes, IncludeDigest{Raw: link.Raw, From: link.From, Path: link.URI, Hash: sum})
	}
	for _, d := range raw {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Primary:  toCachedSpan(fs, file, d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: toCachedSpan(fs, file, n.Span), Msg: n.Msg})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return c.Put(key, payload)
}

// IncludeResolver maps an include directive to a file, as the workspace does.
type IncludeResolver interface {
	ResolveInclude(raw, from string) (string, error)
}

// lookup returns the cached diagnostics when every include still resolves
// to the same file and that file is unchanged.
func (c *DiskCache) lookup(key Digest, fs *source.FileSet, file *source.File, resolver IncludeResolver) ([]diag.Diagnostic, bool) {
	var payload DiskPayload
	if ok, err := c.Get(key, &payload); err != nil || !ok {
		return nil, false
	}
	for _, inc := range payload.Includes {
		// файл мог появиться раньше в порядке поиска
		if uri, err := resolver.ResolveInclude(inc.Raw, inc.From); err != nil || uri != inc.Path {
			return nil, false
		}
		sum, err := hashFile(inc.Path)
		if err != nil || sum != inc.Hash {
			return nil, false
		}
	}

	out := make([]diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, cd := range payload.Diagnostics {
		primary, ok := fromCachedSpan(fs, file, cd.Primary)
		if !ok {
			return nil, false
		}
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  primary,
		}
		for _, n := range cd.Notes {
			sp, ok := fromCachedSpan(fs, file, n.Span)
			if !ok {
				return nil, false
			}
			d.Notes = append(d.Notes, diag.Note{Span: sp, Msg: n.Msg})
		}
		out = append(out, d)
	}
	return out, true
}

func toCachedSpan(fs *source.FileSet, file *source.File, sp source.Span) CachedSpan {
	cs := CachedSpan{Start: sp.Start, End: sp.End}
	if sp.File != file.ID {
		if f := fs.Get(sp.File); f != nil {
			cs.Path = f.Path
		}
	}
	return cs
}

func fromCachedSpan(fs *source.FileSet, file *source.File, cs CachedSpan) (source.Span, bool) {
	if cs.Path == "" {
		return source.Span{File: file.ID, Start: cs.Start, End: cs.End}, true
	}
	if f, ok := fs.GetByPath(cs.Path); ok {
		return source.Span{File: f.ID, Start: cs.Start, End: cs.End}, true
	}
	id, err := fs.Load(cs.Path)
	if err != nil {
		return source.Span{}, false
	}
	return source.Span{File: id, Start: cs.Start, End: cs.End}, true
}
