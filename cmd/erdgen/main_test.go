package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	schoolJSON = `{
  "tables": [
    {
      "name": "Student",
      "properties": {"name": {"type": "varchar"}},
      "relations": {"courses": {"type": "ManyToMany", "entity": "Course", "isOwner": true}}
    },
    {"name": "Course", "properties": {"title": {"type": "varchar"}}}
  ]
}`
	ambiguousJSON = `{
  "tables": [
    {"name": "Profile", "relations": {"user": {"type": "OneToOne", "entity": "User"}}},
    {"name": "User"}
  ]
}`
	asymmetricJSON = `{
  "tables": [
    {"name": "User"},
    {"name": "Post", "relations": {"author": {"type": "ManyToOne", "entity": "User"}}}
  ]
}`
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	school := writeFile(t, dir, "school.json", schoolJSON)
	ambiguous := writeFile(t, dir, "profile.json", ambiguousJSON)

	t.Run("valid", func(t *testing.T) {
		out, _, err := run(t, "validate", school)
		require.NoError(t, err)
		assert.Contains(t, out, school)
		assert.Contains(t, out, "ok valid")
	})

	t.Run("ownership error", func(t *testing.T) {
		out, _, err := run(t, "validate", school, ambiguous)
		require.ErrorIs(t, err, errIssues)
		assert.Contains(t, out, `error[ownership]: Table "Profile" -> relation "user": OneToOne relation requires isOwner`)
		assert.Contains(t, out, "1 error(s), 0 warning(s)")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "validate", "--json", school, ambiguous, filepath.Join(dir, "missing.json"))
		require.ErrorIs(t, err, errIssues)
		var reports []report
		require.NoError(t, json.Unmarshal([]byte(out), &reports))
		require.Len(t, reports, 3)
		assert.True(t, reports[0].Valid)
		assert.Empty(t, reports[0].Errors)
		assert.False(t, reports[1].Valid)
		assert.Len(t, reports[1].Errors, 1)
		assert.False(t, reports[2].Valid)
		assert.Contains(t, reports[2].Errors[0], "missing.json")
	})

	t.Run("symmetry flag", func(t *testing.T) {
		asym := writeFile(t, dir, "asym.json", asymmetricJSON)
		_, _, err := run(t, "validate", asym)
		require.ErrorIs(t, err, errIssues)

		out, _, err := run(t, "validate", "--symmetry", "advisory", asym)
		require.NoError(t, err)
		assert.Contains(t, out, "warning[symmetry]")
		assert.Contains(t, out, "valid with 1 warning(s)")
	})

	t.Run("no files", func(t *testing.T) {
		_, _, err := run(t, "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no schema files")
	})
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	school := writeFile(t, dir, "school.json", schoolJSON)
	out := filepath.Join(dir, "out")

	t.Run("writes schema and manifest", func(t *testing.T) {
		stdout, _, err := run(t, "normalize", "-o", out, school)
		require.NoError(t, err)
		assert.Contains(t, stdout, "wrote "+filepath.Join(out, "school.json"))
		assert.FileExists(t, filepath.Join(out, "school.json"))
		assert.FileExists(t, filepath.Join(out, "school.manifest.json"))

		buf, err := os.ReadFile(filepath.Join(out, "school.json"))
		require.NoError(t, err)
		assert.Contains(t, string(buf), `"StudentCourses"`)
	})

	t.Run("yaml", func(t *testing.T) {
		_, _, err := run(t, "normalize", "-o", out, "--format", "yaml", school)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "school.yaml"))
		assert.FileExists(t, filepath.Join(out, "school.manifest.yaml"))
	})

	t.Run("stdout", func(t *testing.T) {
		stdout, _, err := run(t, "normalize", "--stdout", school)
		require.NoError(t, err)
		assert.Contains(t, stdout, `"name": "StudentCourses"`)
		assert.Contains(t, stdout, `"junction": true`)
	})

	t.Run("failures do not stop other files", func(t *testing.T) {
		ambiguous := writeFile(t, dir, "profile.json", ambiguousJSON)
		other := filepath.Join(dir, "other")
		_, stderr, err := run(t, "normalize", "-o", other, ambiguous, school, filepath.Join(dir, "missing.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple errors")
		assert.Contains(t, err.Error(), "profile.json")
		assert.Contains(t, stderr, "error[ownership]")
		assert.FileExists(t, filepath.Join(other, "school.json"))
		assert.NoFileExists(t, filepath.Join(other, "profile.json"))
	})

	t.Run("bad format flag", func(t *testing.T) {
		_, _, err := run(t, "normalize", "--format", "xml", school)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown format")
	})
}

func TestManifestCommand(t *testing.T) {
	dir := t.TempDir()
	school := writeFile(t, dir, "school.json", schoolJSON)

	out, _, err := run(t, "manifest", school)
	require.NoError(t, err)
	var m struct {
		Modules []struct {
			Name    string   `json:"name"`
			Classes []string `json:"classes"`
		} `json:"modules"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	require.Len(t, m.Modules, 4)
	assert.Equal(t, "entities", m.Modules[0].Name)
	assert.Equal(t, []string{"Courses", "StudentCourses", "Students"}, m.Modules[0].Classes)
	assert.Equal(t, []string{"CourseRepository", "StudentRepository"}, m.Modules[1].Classes)

	ambiguous := writeFile(t, dir, "profile.json", ambiguousJSON)
	_, stderr, err := run(t, "manifest", ambiguous)
	require.ErrorIs(t, err, errIssues)
	assert.Contains(t, stderr, "requires isOwner")

	_, _, err = run(t, "manifest")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "erdgen dev")
}
