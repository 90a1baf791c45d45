package context

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNameAcceptsUpToThreeSegments(t *testing.T) {
	assert.NoError(t, ValidateName("inbox"))
	assert.NoError(t, ValidateName("org/team"))
	assert.NoError(t, ValidateName("org/team/inbox"))
}

func TestValidateNameRejectsTooManySegments(t *testing.T) {
	assert.Error(t, ValidateName("a/b/c/d"))
}

func TestValidateNameRejectsBadIdentifier(t *testing.T) {
	assert.Error(t, ValidateName("has space"))
	assert.Error(t, ValidateName(""))
}

func TestInitializeCreatesFreshContext(t *testing.T) {
	root := t.TempDir()
	setup := Setup{RootPath: root, Name: "org/inbox"}

	c, err := Initialize(setup, nil)
	require.NoError(t, err)
	assert.Equal(t, "org/inbox", c.Name())
	assert.Empty(t, c.Tables())

	version, err := c.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), version)
}

func TestInitializeDiscoversTableVersions(t *testing.T) {
	root := t.TempDir()
	setup := Setup{RootPath: root, Name: "inbox"}

	// Seed the tables/ directory before Initialize so enumerateTables has
	// something to discover: two schema files for "orders", one for "users".
	ordersDir := filepath.Join(setup.tablesPath(), "orders")
	usersDir := filepath.Join(setup.tablesPath(), "users")
	require.NoError(t, os.MkdirAll(ordersDir, 0700))
	require.NoError(t, os.MkdirAll(usersDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(ordersDir, "table-1.pb"), nil, 0600))
	require.NoError(t, os.WriteFile(filepath.Join(ordersDir, "table-2.pb"), nil, 0600))
	require.NoError(t, os.WriteFile(filepath.Join(usersDir, "table-1.pb"), nil, 0600))

	c, err := Initialize(setup, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, c.Tables())

	v, ok := c.TableVersion("orders")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = c.TableVersion("users")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.TableVersion("missing")
	assert.False(t, ok)
}

func TestUpdateRejectsSchemaVersionRegression(t *testing.T) {
	root := t.TempDir()
	setup := Setup{RootPath: root, Name: "inbox"}
	c, err := Initialize(setup, nil)
	require.NoError(t, err)

	require.NoError(t, c.Update(UpdateInfo{SchemaVersion: 5}))
	v, err := c.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)

	require.NoError(t, c.Update(UpdateInfo{SchemaVersion: 2}))
	v, err = c.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v, "a lower schema_version must be silently rejected")
}

func TestUpdateAssignsIDOnFirstRealChange(t *testing.T) {
	root := t.TempDir()
	setup := Setup{RootPath: root, Name: "inbox"}
	c, err := Initialize(setup, nil)
	require.NoError(t, err)

	id, err := c.ID()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	require.NoError(t, c.Update(UpdateInfo{Description: "first"}))

	id, err = c.ID()
	require.NoError(t, err)
	assert.NotEqual(t, uint64(0), id)

	created, _, err := c.CreatedOn()
	require.NoError(t, err)
	assert.NotEqual(t, int64(0), created)
}

func TestReloadAfterSavePreservesFields(t *testing.T) {
	root := t.TempDir()
	setup := Setup{RootPath: root, Name: "inbox"}
	c, err := Initialize(setup, nil)
	require.NoError(t, err)
	require.NoError(t, c.Update(UpdateInfo{SchemaVersion: 3, Description: "hello"}))

	reloaded, err := Initialize(setup, nil)
	require.NoError(t, err)

	v, err := reloaded.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)

	d, err := reloaded.Description()
	require.NoError(t, err)
	assert.Equal(t, "hello", d)
}

func TestInitializeRejectsBadName(t *testing.T) {
	root := t.TempDir()
	_, err := Initialize(Setup{RootPath: root, Name: "bad name"}, nil)
	assert.Error(t, err)
}
