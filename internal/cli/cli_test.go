package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/csvclean/table"
)

const peopleCSV = `name,age,city
Alice,30,Tokyo
Bob,,Osaka
Carol,41,
Dave,35,Tokyo
`

const linearCSV = `x,y
1,2
2,4
3,
4,8
5,10
6,12
7,
8,16
9,18
10,20
`

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	code = run(root, append([]string{"--log-level", "disabled"}, args...), &errOut)
	return out.String(), errOut.String(), code
}

func TestInspect(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)

	out, _, code := execute(t, "inspect", path, "--rows", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Showing 2 of 4 rows.")
	assert.Contains(t, out, "| age | 1 | 25.00 | low |")
	assert.Contains(t, out, "2 of 3 columns at or above 10% missing")
}

func TestInspectThreshold(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)

	out, _, code := execute(t, "inspect", path, "--threshold", "30")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "| age | 1 | 25.00 | none |")
	assert.Contains(t, out, "0 of 3 columns at or above 30% missing")
}

func TestDropWithOutput(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)
	dst := filepath.Join(t.TempDir(), "out.csv")

	out, _, code := execute(t, "drop", path, "--columns", "city,unknown", "--output", dst)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Wrote 4 rows x 2 columns to "+dst)

	got, err := table.ReadCSVFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, got.ColumnNames())

	orig, err := table.ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, orig.NumColumns(), "input is untouched when --output is given")
}

func TestDropNoMatch(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)

	_, stderr, code := execute(t, "drop", path, "--columns", "zip")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: ValidationError")
}

func TestFillOverwrites(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)

	_, _, code := execute(t, "fill", path, "--strategy", "median")
	require.Equal(t, 0, code)

	got, err := table.ReadCSVFile(path)
	require.NoError(t, err)
	age, _ := got.Column("age")
	assert.Zero(t, age.NullCount())
	assert.Equal(t, 35.0, age.Values[1].Num)
	city, _ := got.Column("city")
	assert.Equal(t, 1, city.NullCount(), "text columns are not filled by default")
}

func TestFillUnknownStrategy(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)

	_, stderr, code := execute(t, "fill", path, "--strategy", "max")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ValidationError")
}

func TestFillModel(t *testing.T) {
	path := writeInput(t, "linear.csv", linearCSV)

	_, _, code := execute(t, "fill-model", path, "--target", "y", "--features", "x", "--n-estimators", "50")
	require.Equal(t, 0, code)

	got, err := table.ReadCSVFile(path)
	require.NoError(t, err)
	y, _ := got.Column("y")
	assert.Zero(t, y.NullCount())
}

func TestFillModelRequiresTarget(t *testing.T) {
	path := writeInput(t, "linear.csv", linearCSV)

	_, _, code := execute(t, "fill-model", path, "--features", "x")
	assert.Equal(t, 1, code)
}

func TestReportHTML(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)
	dst := filepath.Join(t.TempDir(), "report.html")

	_, _, code := execute(t, "report", path, "--format", "html", "--out", dst)
	require.Equal(t, 0, code)

	body, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<table>")
	assert.Contains(t, string(body), "#ffe6e6")
}

func TestReportMarkdownToStdout(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)

	out, _, code := execute(t, "report", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "## Missing values")
}

func TestReportBadFormat(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)

	_, stderr, code := execute(t, "report", path, "--format", "pdf")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ValidationError")
}

func TestPlot(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)
	dst := filepath.Join(t.TempDir(), "missing.png")

	_, _, code := execute(t, "plot", path, "--out", dst)
	require.Equal(t, 0, code)

	body, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
}

func TestMissingFile(t *testing.T) {
	_, stderr, code := execute(t, "inspect", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: ParseError")
}

func TestConfigShow(t *testing.T) {
	t.Setenv("CSVCLEAN_PREVIEW_ROWS", "7")

	out, _, code := execute(t, "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "preview_rows: 7")
	assert.Contains(t, out, "n_estimators: 100")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{" a ,b", "", "c,"}))
	assert.Nil(t, splitList(nil))
}
