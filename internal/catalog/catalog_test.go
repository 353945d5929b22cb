package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
  // institutes keyed by the dropdown value
  "10": {
    "institute_name": "Институт экономики",
    "school": {
      "3": {"school_name": "Школа финансов", "groups": {"101": "ФН-21", "102": "ФН-22"}}
    }
  },
  "2": {
    "institute_name": "Институт математики",
    "school": {
      "7": {"school_name": "Школа прикладной математики", "groups": {"55": "ПМ-21"}}
    }
  }
}`

func mustParse(t *testing.T) Catalog {
	t.Helper()
	c, err := Parse([]byte(fixture))
	require.NoError(t, err)
	return c
}

func TestParseJSON5(t *testing.T) {
	c := mustParse(t)
	require.Len(t, c, 2)
	assert.Equal(t, "Институт экономики", c["10"].Name)
	assert.Equal(t, "ФН-22", c["10"].Schools["3"].Groups["102"])
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "group_indexes.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse([]byte(`{}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestTargetsCoverEveryLeafInOrder(t *testing.T) {
	c := mustParse(t)

	targets, err := c.Targets("11 неделя", Filter{})
	require.NoError(t, err)
	require.Len(t, targets, 3)

	// numeric ids sort numerically: institute 2 before 10
	assert.Equal(t, "ПМ-21", targets[0].GroupName)
	assert.Equal(t, "ФН-21", targets[1].GroupName)
	assert.Equal(t, "ФН-22", targets[2].GroupName)

	for _, tg := range targets {
		assert.Equal(t, "11 неделя", tg.Week)
		assert.NotEmpty(t, tg.InstituteName)
		assert.NotEmpty(t, tg.SchoolName)
	}
}

func TestTargetsFilter(t *testing.T) {
	c := mustParse(t)

	targets, err := c.Targets("11", Filter{InstituteID: "10", GroupID: "102"})
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "ФН-22", targets[0].GroupName)

	_, err = c.Targets("11", Filter{InstituteID: "99"})
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "institute", lookupErr.Kind)

	_, err = c.Targets("11", Filter{InstituteID: "2", SchoolID: "3"})
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "school", lookupErr.Kind)

	_, err = c.Targets("11", Filter{GroupID: "404"})
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "group", lookupErr.Kind)
}

func TestLookup(t *testing.T) {
	c := mustParse(t)

	tg, err := c.Lookup("2", "7", "55")
	require.NoError(t, err)
	assert.Equal(t, "ПМ-21", tg.GroupName)
	assert.Equal(t, "Школа прикладной математики", tg.SchoolName)

	_, err = c.Lookup("2", "7", "56")
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "group", lookupErr.Kind)
	assert.Contains(t, err.Error(), "56")
}

func TestGroupNames(t *testing.T) {
	assert.Equal(t, []string{"ПМ-21", "ФН-21", "ФН-22"}, mustParse(t).GroupNames())
}
