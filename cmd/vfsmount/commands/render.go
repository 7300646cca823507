package commands

import (
	"strconv"

	"github.com/marmos91/vfsmount/internal/cli/output"
	"github.com/marmos91/vfsmount/pkg/api/handlers"
	"github.com/marmos91/vfsmount/pkg/catalog"
)

// mountList renders mounts as a table.
type mountList []handlers.MountInfo

func (l mountList) Headers() []string {
	return []string{"Mount Point", "Backend", "Storage ID", "Numeric ID", "Read Only"}
}

func (l mountList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, m := range l {
		rows = append(rows, []string{
			m.MountPoint,
			m.Backend,
			m.StorageID,
			formatNumericID(m.NumericID),
			strconv.FormatBool(m.ReadOnly),
		})
	}
	return rows
}

// catalogList renders catalog entries as a table.
type catalogList []catalog.Entry

func (l catalogList) Headers() []string {
	return []string{"Numeric ID", "Storage ID"}
}

func (l catalogList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{strconv.FormatInt(e.NumericID, 10), e.StorageID})
	}
	return rows
}

// resolutionTable renders one resolved path. An empty internal path means
// the query named the mount point itself.
func resolutionTable(r handlers.Resolution) *output.DetailTable {
	return output.NewDetailTable().
		Add("Path", r.Path).
		Add("Mount Point", r.Mount.MountPoint).
		Add("Internal Path", r.InternalPath).
		Add("Backend", r.Mount.Backend).
		Add("Storage ID", r.Mount.StorageID).
		Add("Numeric ID", formatNumericID(r.Mount.NumericID)).
		Add("Read Only", strconv.FormatBool(r.Mount.ReadOnly))
}

func formatNumericID(id int64) string {
	if id == 0 {
		return output.Placeholder
	}
	return strconv.FormatInt(id, 10)
}
