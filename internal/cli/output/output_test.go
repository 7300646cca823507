package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{" JSON ", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type row struct {
	MountPoint string `json:"mount_point" yaml:"mount_point"`
}

type rows []row

func (r rows) Headers() []string { return []string{"Mount Point"} }

func (r rows) Rows() [][]string {
	out := make([][]string, 0, len(r))
	for _, x := range r {
		out = append(out, []string{x.MountPoint})
	}
	return out
}

func TestPrinter(t *testing.T) {
	data := rows{{"/"}, {"/alice/"}}

	t.Run("Table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable).Print(data, "none"))
		assert.Contains(t, buf.String(), "MOUNT POINT")
		assert.Contains(t, buf.String(), "/alice/")
	})

	t.Run("EmptyTable", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable).Print(rows{}, "No mounts."))
		assert.Equal(t, "No mounts.\n", buf.String())
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatJSON).Print(data, ""))
		assert.JSONEq(t, `[{"mount_point":"/"},{"mount_point":"/alice/"}]`, buf.String())
	})

	t.Run("YAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatYAML).Print(data, ""))
		assert.Equal(t, "- mount_point: /\n- mount_point: /alice/\n", buf.String())
	})

	t.Run("NonRendererFallsBackToJSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable).Print(map[string]int{"a": 1}, ""))
		assert.JSONEq(t, `{"a":1}`, buf.String())
	})
}

func TestDetailTable(t *testing.T) {
	table := NewDetailTable()
	assert.Empty(t, table.Rows())

	table.Add("Mount Point", "/alice/").Add("Internal Path", "")
	assert.Equal(t, [][]string{{"Mount Point", "/alice/"}, {"Internal Path", ""}}, table.Rows())

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, table))
	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "/alice/")
	assert.Regexp(t, `Internal Path\s+-`, out)
}

func TestFillRow(t *testing.T) {
	assert.Equal(t, []string{"a", "-", "-"}, fillRow([]string{"a", ""}, 3))
	assert.Equal(t, []string{"a", "b"}, fillRow([]string{"a", "b"}, 1))
	assert.Equal(t, []string{"-"}, fillRow(nil, 1))
}

func TestSuccessWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, FormatTable).Success("done")
	assert.Equal(t, "done\n", buf.String())
}
