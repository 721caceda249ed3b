package table

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func appTable() Data {
	return Data{
		Header: Row{
			Text("Agency"),
			Rich{Display: "App", ColSpan: 2, CSV: []string{"Issuer", "Friendly Name"}},
			Rich{Display: "Welcome"},
			Rich{Display: "Agreement", ColSpan: 2},
		},
		Body: []Row{{
			Text("agency1"),
			Rich{Display: "App One", Title: "issuer1", ColSpan: 2, CSV: []string{"issuer1", "App One"}},
			Int(10),
			Int(5),
			Rich{Display: "50%", CSV: []string{"0.5"}, Background: PercentColor(0.5)},
		}},
		Footer: Row{Text("Total"), Rich{ColSpan: 2}, Int(10), Int(5), Text("")},
	}
}

func TestFlatten(t *testing.T) {
	require.Equal(t, []string{"a"}, Flatten(Text("a")))
	require.Equal(t, []string{"1000"}, Flatten(Int(1000)))
	require.Equal(t, []string{"0.25"}, Flatten(Number(0.25)))
	require.Equal(t, []string{"x", ""}, Flatten(Rich{Display: "x", ColSpan: 2}))
	require.Equal(t, []string{"x"}, Flatten(Rich{Display: "x"}), "no span is span 1")
	require.Equal(t, []string{"i", "n"}, Flatten(Rich{Display: "x", ColSpan: 2, CSV: []string{"i", "n"}}))
	require.Equal(t, []string{"i", ""}, Flatten(Rich{ColSpan: 2, CSV: []string{"i"}}), "short override is padded")
	require.Equal(t, []string{"i"}, Flatten(Rich{CSV: []string{"i", "n"}}), "long override is cut to the span")
	require.Equal(t, []string{""}, Flatten(Rich{Display: "x", CSV: []string{}}), "empty override exports a blank")
}

func TestValidate(t *testing.T) {
	data := appTable()
	require.NoError(t, data.Validate())
	require.Equal(t, 6, data.Header.Width())

	data.Body[0] = data.Body[0][:4]
	require.ErrorIs(t, data.Validate(), ErrShape)

	require.NoError(t, Data{Header: Texts("a", "b")}.Validate(), "empty body is well formed")
}

func TestWriteCSV_SpanAlignment(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, appTable()))

	require.Equal(t,
		"Agency,Issuer,Friendly Name,Welcome,Agreement,\n"+
			"agency1,issuer1,App One,10,5,0.5\n"+
			"Total,,,10,5,\n",
		buf.String())
}

func TestWriteCSV_Quoting(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Header: Texts("name"),
		Body:   []Row{Texts(`a,b`), Texts(`say "hi"`), Texts("two\nlines")},
	}
	require.NoError(t, WriteCSV(&buf, data))
	require.Equal(t, "name\n\"a,b\"\n\"say \"\"hi\"\"\"\n\"two\nlines\"\n", buf.String())
}

func TestWriteCSV_RejectsRaggedTable(t *testing.T) {
	var buf bytes.Buffer
	data := Data{Header: Texts("a", "b"), Body: []Row{Texts("1")}}

	require.ErrorIs(t, WriteCSV(&buf, data), ErrShape)
	require.Empty(t, buf.String())
}

func TestWriteCSV_MismatchedOverrideStaysAligned(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Header: Row{Text("a"), Rich{Display: "b", ColSpan: 2, CSV: []string{"b1", "b2", "b3"}}},
		Body:   []Row{{Text("1"), Rich{ColSpan: 2, CSV: []string{"2"}}}},
	}

	require.NoError(t, WriteCSV(&buf, data))
	require.Equal(t, "a,b1,b2\n1,2,\n", buf.String())
}

func TestFilename(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2021, 1, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "daily-auths-report-2021-01-01-to-2021-01-07.csv", Filename("daily-auths-report", start, finish))
}

func TestPercentColor(t *testing.T) {
	require.Equal(t, "#4682b4", PercentColor(0))
	require.Equal(t, "#ffffff", PercentColor(1))
	require.Equal(t, "#4682b4", PercentColor(-3))
	require.Equal(t, "#ffffff", PercentColor(2))
	require.NotEqual(t, PercentColor(0.25), PercentColor(0.75))
}

func TestDisplay(t *testing.T) {
	format := func(f float64) string { return "n" }
	require.Equal(t, "a", Display(Text("a"), format))
	require.Equal(t, "n", Display(Int(3), format))
	require.Equal(t, "3", Display(Int(3), nil))
	require.Equal(t, "50%", Display(Rich{Display: "50%"}, format))
}

func TestMarshalJSON(t *testing.T) {
	out, err := json.Marshal(Data{Header: Row{Text("a"), Int(2), Rich{Display: "d", ColSpan: 2}}})
	require.NoError(t, err)
	require.JSONEq(t, `{
		"header": [
			{"kind": "text", "text": "a"},
			{"kind": "number", "number": 2},
			{"kind": "rich", "display": "d", "colspan": 2}
		],
		"body": null
	}`, string(out))
}
