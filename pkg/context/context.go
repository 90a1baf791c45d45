// Package context implements prinbee's context lifecycle (C5, spec.md
// §4.5): the root-level structure that binds a schema version, a unique
// id, and timestamps to a named on-disk directory tree of tables and
// complex-type declarations.
//
// Grounded on original_source/prinbee/database/context.cpp's
// context_impl (initialize/load_context/update/save_context) and its
// id-assignment discipline in get_new_random_identifier()/update().
package context

import (
	"os/user"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/m2osw/prinbee/pkg/elog"
	"github.com/m2osw/prinbee/pkg/perrors"
	"github.com/m2osw/prinbee/pkg/schema"
	"github.com/m2osw/prinbee/pkg/structure"
)

const (
	contextFilename      = "context.pb"
	complexTypesFilename = "complex-types.pb"
	tablesDirname        = "tables"

	// DirectoryMode is the mode new context directories are created with
	// (spec.md §6 "Directory layout").
	DirectoryMode = 0700
)

var nameSegmentRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Setup describes where a context lives and who should own its files.
type Setup struct {
	RootPath string
	Name     string
	Owner    string
	Group    string
}

// Context is a loaded context: its own structure plus the tables and
// complex-type registry found under its directory.
type Context struct {
	setup         Setup
	log           elog.Logger
	s             *structure.Structure
	registry      *schema.Registry
	tableVersions map[string]int
}

// ValidateName enforces spec.md §6: up to three "/"-separated segments,
// each at most 100 characters and a valid identifier.
func ValidateName(name string) error {
	segments := strings.Split(name, "/")
	if len(segments) == 0 || len(segments) > 3 {
		return perrors.New(perrors.InvalidParameter, "context name %q must have one to three \"/\"-separated segments", name)
	}
	for _, seg := range segments {
		if len(seg) == 0 || len(seg) > 100 {
			return perrors.New(perrors.InvalidParameter, "context name segment %q must be 1-100 characters", seg)
		}
		if !nameSegmentRE.MatchString(seg) {
			return perrors.New(perrors.InvalidParameter, "context name segment %q is not a valid identifier", seg)
		}
	}
	return nil
}

// Path returns the context's directory under the configured root.
func (setup Setup) Path() string {
	return filepath.Join(append([]string{setup.RootPath, "contexts"}, strings.Split(setup.Name, "/")...)...)
}

func (setup Setup) tablesPath() string {
	return filepath.Join(setup.Path(), tablesDirname)
}

func (setup Setup) contextFilePath() string {
	return filepath.Join(setup.Path(), contextFilename)
}

func (setup Setup) complexTypesFilePath() string {
	return filepath.Join(setup.Path(), complexTypesFilename)
}

// lookupOwnerGroup resolves the configured owner/group names to numeric
// ids, when set. Absent names are not an error: the directory is simply
// left with the process's own ownership.
func (setup Setup) lookupOwnerGroup() (uid, gid int, ok bool, err error) {
	if setup.Owner == "" && setup.Group == "" {
		return 0, 0, false, nil
	}
	uid, gid = -1, -1
	if setup.Owner != "" {
		u, lerr := user.Lookup(setup.Owner)
		if lerr != nil {
			return 0, 0, false, perrors.Wrap(perrors.IOError, lerr, "looking up owner %q", setup.Owner)
		}
		uid, _ = strconv.Atoi(u.Uid)
	}
	if setup.Group != "" {
		g, lerr := user.LookupGroup(setup.Group)
		if lerr != nil {
			return 0, 0, false, perrors.Wrap(perrors.IOError, lerr, "looking up group %q", setup.Group)
		}
		gid, _ = strconv.Atoi(g.Gid)
	}
	return uid, gid, true, nil
}

// Name returns the context's configured name.
func (c *Context) Name() string { return c.setup.Name }

// Registry returns the context's complex-type registry.
func (c *Context) Registry() *schema.Registry { return c.registry }

// Tables returns the table directory names found under tables/, sorted.
func (c *Context) Tables() []string {
	names := make([]string, 0, len(c.tableVersions))
	for name := range c.tableVersions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableVersion returns the highest table-<version>.pb version number
// found for name, and whether name is a known table.
func (c *Context) TableVersion(name string) (int, bool) {
	v, ok := c.tableVersions[name]
	return v, ok
}

func (c *Context) SchemaVersion() (uint64, error) {
	return c.s.GetUinteger("schema_version")
}

func (c *Context) Description() (string, error) {
	return c.s.GetString("description")
}

func (c *Context) ID() (uint64, error) {
	return c.s.GetUinteger("id")
}

func (c *Context) CreatedOn() (seconds, nanoseconds int64, err error) {
	return c.s.GetNstime("created_on")
}

func (c *Context) LastUpdatedOn() (seconds, nanoseconds int64, err error) {
	return c.s.GetNstime("last_updated_on")
}
