package context

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/m2osw/prinbee/pkg/elog"
	"github.com/m2osw/prinbee/pkg/perrors"
	"github.com/m2osw/prinbee/pkg/schema"
	"github.com/m2osw/prinbee/pkg/structure"
	"github.com/m2osw/prinbee/pkg/vbuffer"
)

// Initialize implements spec.md §4.5's four-step sequence: resolve and
// create the context's directory tree, load (or create) context.pb and
// complex-types.pb, and enumerate the tables/ subdirectory.
func Initialize(setup Setup, log elog.Logger) (*Context, error) {
	if err := ValidateName(setup.Name); err != nil {
		return nil, err
	}
	log = elog.Or(log)

	if err := setup.ensureDirectories(); err != nil {
		return nil, err
	}

	s, err := loadOrCreateContext(setup, log)
	if err != nil {
		return nil, err
	}

	registry, err := loadOrCreateComplexTypes(setup, log)
	if err != nil {
		return nil, err
	}

	tables, err := enumerateTables(setup)
	if err != nil {
		return nil, err
	}

	c := &Context{setup: setup, log: log, s: s, registry: registry, tableVersions: tables}
	if err := c.s.SetString("name", setup.Name); err != nil {
		return nil, err
	}
	return c, nil
}

// ensureDirectories creates <root>/contexts/<name>/tables/ with
// DirectoryMode, applying the configured owner/group when set
// (spec.md §5 "Scoped acquisition").
func (setup Setup) ensureDirectories() error {
	if err := os.MkdirAll(setup.tablesPath(), DirectoryMode); err != nil {
		return perrors.Wrap(perrors.IOError, err, "creating context directory %q", setup.Path())
	}

	uid, gid, ok, err := setup.lookupOwnerGroup()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := os.Chown(setup.Path(), uid, gid); err != nil {
		return perrors.Wrap(perrors.IOError, err, "chown context directory %q", setup.Path())
	}
	if err := os.Chown(setup.tablesPath(), uid, gid); err != nil {
		return perrors.Wrap(perrors.IOError, err, "chown tables directory %q", setup.tablesPath())
	}
	return nil
}

func loadOrCreateContext(setup Setup, log elog.Logger) (*structure.Structure, error) {
	buf := vbuffer.New(log)
	if err := buf.LoadFile(setup.contextFilePath(), false); err != nil {
		return nil, err
	}
	if buf.Size() == 0 {
		s, _, err := structure.NewFresh(contextDescriptor(), log)
		return s, err
	}
	parsed, err := fromBinary(buf, log)
	if err != nil {
		return nil, err
	}
	s, ok := parsed.(*structure.Structure)
	if !ok {
		return nil, perrors.New(perrors.InvalidType, "%q does not hold a context file", setup.contextFilePath())
	}
	return s, nil
}

func loadOrCreateComplexTypes(setup Setup, log elog.Logger) (*schema.Registry, error) {
	buf := vbuffer.New(log)
	if err := buf.LoadFile(setup.complexTypesFilePath(), false); err != nil {
		return nil, err
	}
	if buf.Size() == 0 {
		return schema.NewRegistry(), nil
	}
	parsed, err := fromBinary(buf, log)
	if err != nil {
		return nil, err
	}
	s, ok := parsed.(*structure.Structure)
	if !ok {
		return nil, perrors.New(perrors.InvalidType, "%q does not hold a complex-types file", setup.complexTypesFilePath())
	}
	return registryFromStructure(s)
}

// OpenFile loads any prinbee CTXT or CXTP file and parses it, for
// tooling that only needs to inspect a binary file's fields (the
// "structure dump" CLI command) rather than drive a full context
// lifecycle.
func OpenFile(path string, log elog.Logger) (*structure.Structure, error) {
	log = elog.Or(log)
	buf := vbuffer.New(log)
	if err := buf.LoadFile(path, false); err != nil {
		return nil, err
	}
	if buf.Size() == 0 {
		return nil, perrors.New(perrors.CorruptedData, "%q is empty", path)
	}
	parsed, err := fromBinary(buf, log)
	if err != nil {
		return nil, err
	}
	s, ok := parsed.(*structure.Structure)
	if !ok {
		return nil, perrors.New(perrors.InvalidType, "%q does not hold a recognised prinbee structure", path)
	}
	return s, nil
}

// fromBinary implements spec.md §4.5's magic dispatch: peek the first 4
// bytes and route to the context or complex-types parser.
func fromBinary(buf *vbuffer.Buffer, log elog.Logger) (interface{}, error) {
	tag := make([]byte, 4)
	if _, err := buf.PRead(tag, 0, true); err != nil {
		return nil, perrors.Wrap(perrors.CorruptedData, err, "reading file magic")
	}
	switch string(tag) {
	case "CTXT":
		return fromBinaryContext(buf, log)
	case "CXTP":
		return fromBinaryComplexTypes(buf, log)
	default:
		return nil, perrors.New(perrors.InvalidType, "invalid type found in binary buffer (magic %q)", string(tag))
	}
}

func fromBinaryContext(buf *vbuffer.Buffer, log elog.Logger) (*structure.Structure, error) {
	return structure.New(contextDescriptor(), buf, log)
}

func fromBinaryComplexTypes(buf *vbuffer.Buffer, log elog.Logger) (*structure.Structure, error) {
	return structure.New(complexTypesDescriptor(), buf, log)
}

func registryFromStructure(s *structure.Structure) (*schema.Registry, error) {
	registry := schema.NewRegistry()
	entries, err := s.GetArray("entries")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		name, err := entry.GetString("name")
		if err != nil {
			return nil, err
		}
		refsText, err := entry.GetString("references")
		if err != nil {
			return nil, err
		}
		var refs []string
		if refsText != "" {
			refs = strings.Split(refsText, ",")
		}
		if err := registry.Register(name, nil, refs); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// enumerateTables lists the table subdirectories and, for each, uses an
// errgroup to concurrently find its highest schema version file
// (table-<version>.pb), returning name -> version. Parsing the SCHM
// payload itself is out of scope here: table schema loading belongs to
// a table package this module does not implement (see DESIGN.md).
func enumerateTables(setup Setup) (map[string]int, error) {
	entries, err := os.ReadDir(setup.tablesPath())
	if err != nil {
		return nil, perrors.Wrap(perrors.IOError, err, "reading tables directory %q", setup.tablesPath())
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	versions := make([]int, len(names))
	g := new(errgroup.Group)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			v, err := latestTableVersion(setup.tablesPath(), name)
			versions[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tables := make(map[string]int, len(names))
	for i, name := range names {
		tables[name] = versions[i]
	}
	return tables, nil
}

func latestTableVersion(tablesPath, tableName string) (int, error) {
	dir := tablesPath + string(os.PathSeparator) + tableName
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, perrors.Wrap(perrors.IOError, err, "reading table directory %q", dir)
	}
	best := 0
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "table-") || !strings.HasSuffix(name, ".pb") {
			continue
		}
		versionText := strings.TrimSuffix(strings.TrimPrefix(name, "table-"), ".pb")
		v, err := strconv.Atoi(versionText)
		if err != nil {
			continue
		}
		if v > best {
			best = v
		}
	}
	return best, nil
}
